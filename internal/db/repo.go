package db

import (
	"context"
	"database/sql"
	"errors"

	"prescription-chatbot/pkg"
)

// Repository wraps database operations for finalized prescriptions.
// The prescriptions table is append-only; rows are never updated.
type Repository struct {
	DB *sql.DB
}

// NewRepository constructs a new Repository from an existing sql.DB.
// The caller is responsible for managing the DB connection lifecycle.
func NewRepository(db *sql.DB) *Repository { return &Repository{DB: db} }

// Append stores one finalized prescription row.
func (r *Repository) Append(ctx context.Context, row *pkg.RecordRow) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO prescriptions
            (patient_name, date, medicine_name, duration, duration_unit,
             timing, food_timing, times_per_day, total_tablets, raw_prescription)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.PatientName, row.Date, row.MedicineName, row.Duration, row.DurationUnit,
		row.Timing, row.FoodTiming, row.TimesPerDay, row.TotalTablets, row.RawPrescription,
	)
	return err
}

// ListRecords returns all prescriptions, newest date first.
func (r *Repository) ListRecords(ctx context.Context) ([]pkg.RecordRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT patient_name, date, medicine_name, duration, duration_unit,
                timing, food_timing, times_per_day, total_tablets, raw_prescription
         FROM prescriptions
         ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []pkg.RecordRow
	for rows.Next() {
		var row pkg.RecordRow
		if err := rows.Scan(
			&row.PatientName, &row.Date, &row.MedicineName, &row.Duration, &row.DurationUnit,
			&row.Timing, &row.FoodTiming, &row.TimesPerDay, &row.TotalTablets, &row.RawPrescription,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Stats computes the admin dashboard aggregates.  today is the ISO date
// used for the per-day count; the most-frequent medicine tie-break is
// arbitrary.
func (r *Repository) Stats(ctx context.Context, today string) (*pkg.AdminStats, error) {
	stats := &pkg.AdminStats{MostPrescribed: "None"}

	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
                COUNT(*) FILTER (WHERE date = $1),
                COUNT(DISTINCT patient_name) FILTER (WHERE patient_name <> '')
         FROM prescriptions`, today,
	).Scan(&stats.TotalPrescriptions, &stats.TodayPrescriptions, &stats.UniquePatients)
	if err != nil {
		return nil, err
	}

	err = r.DB.QueryRowContext(ctx,
		`SELECT medicine_name
         FROM prescriptions
         WHERE medicine_name NOT IN ('', '-')
         GROUP BY medicine_name
         ORDER BY COUNT(*) DESC
         LIMIT 1`,
	).Scan(&stats.MostPrescribed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return stats, nil
}

package core

// prompts.go collects the extraction prompt and the user-visible message
// templates.  Keeping these strings in one file makes them easy to tweak
// without touching the conversation logic.

// ExtractionPromptTemplate is filled with the raw instruction text and
// sent to the language model.  The reply must be a newline-delimited
// Key: Value block using exactly these keys; anything else is treated as
// malformed and discarded.
const ExtractionPromptTemplate = `Extract the following information from this medical prescription text: "%s"

Return ONLY in this exact format:
Medicine Name: [medicine name or not mentioned]
Duration: [number only, e.g., 3]
Duration Unit: [days/weeks/months or not mentioned]
Morning: [yes/no]
Afternoon: [yes/no]
Night: [yes/no]
Times Per Day: [number or not mentioned]

Rules:
- For Medicine Name: Extract the actual medicine/drug name (e.g., paracetamol, aspirin, etc.)
- For Duration: Extract only the number (e.g., if "3 days" then return "3")
- For Duration Unit: Extract only the unit (days, weeks, months)
- For Morning/Afternoon/Night: Set to "yes" only if explicitly mentioned
- For Times Per Day: Extract frequency number if mentioned (e.g., "2 times a day" = 2)
- If timing is mentioned as "twice a day" or "2 times" without specific timing, set Times Per Day accordingly
- Common timing keywords: morning, afternoon, evening, night, breakfast, lunch, dinner, bedtime
- Be very specific about timing - only say "yes" if clearly mentioned

Examples:
- "take paracetamol 2 times a day for 3 days" → Morning: no, Afternoon: no, Night: no, Times Per Day: 2
- "take aspirin in the morning and night for 1 week" → Morning: yes, Afternoon: no, Night: yes, Times Per Day: 2`

const (
	// WelcomeMessage greets the doctor when a chat session starts.
	WelcomeMessage = "Hello Doctor! Please enter the patient prescription details (e.g., 'take paracetamol 2 times a day for 3 days before food')."

	// NoPendingSaveMessage answers a confirmation with nothing to save.
	NoPendingSaveMessage = "No pending prescription to save. Please start over."

	// NoPendingEditMessage answers an edit request with nothing to edit.
	NoPendingEditMessage = "No pending prescription to edit. Please start over."

	// EditChoiceMessage asks which field to change after a "no".
	EditChoiceMessage = "What would you like to change? Please specify the field and new value (e.g., 'Duration: 5 days' or 'Timing: morning and night')"

	// EditFormatMessage nudges the user back to the Field: Value format.
	EditFormatMessage = "I couldn't understand what you want to change. Please use format 'Field: New Value'"

	// SaveOKStatus and SaveFailStatusPrefix are embedded in the final
	// message after a save attempt.
	SaveOKStatus         = "Prescription saved successfully!"
	SaveFailStatusPrefix = "Failed to save prescription: "
	SaveRetryHint        = "You can reply 'yes' to try saving again."
)

package models

// Receipt represents the metadata text file shipped next to each submitted notebook.
type Receipt struct {
	// Username is the token between parentheses on the first line, or UnknownUsername.
	Username string `json:"username"`
	// Name is the student's display name ("Name:" line), if present.
	Name string `json:"name,omitempty"`
	// Assignment is the assignment title ("Assignment:" line), if present.
	Assignment string `json:"assignment,omitempty"`
	// DateSubmitted is the raw submission timestamp ("Date Submitted:" line), if present.
	DateSubmitted string `json:"date_submitted,omitempty"`
}

// Identified reports whether the receipt named a student.
func (r Receipt) Identified() bool {
	return r.Username != "" && r.Username != UnknownUsername
}

// Submission is a matched receipt/notebook pair.
type Submission struct {
	// Username identifies the student.
	Username string `json:"username"`
	// ReceiptFile is the receipt file name (no path).
	ReceiptFile string `json:"receipt_file"`
	// NotebookFile is the notebook file name (no path).
	NotebookFile string `json:"notebook_file"`
	// Receipt holds the parsed receipt contents.
	Receipt Receipt `json:"receipt"`
}

// Skip records a submission that was not carried forward.
type Skip struct {
	// Username is the extracted username, or "unidentified".
	Username string `json:"username"`
	// File is the file the skip was decided on.
	File string `json:"file"`
	// Reason is a short human-readable explanation.
	Reason string `json:"reason"`
}

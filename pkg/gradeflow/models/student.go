// Package models defines data structures for grading bookkeeping.
package models

// UnknownUsername is the sentinel used when a receipt carries no "(username)" token.
const UnknownUsername = "UNKNOWN"

// Student represents one roster entry.
type Student struct {
	// LastName is the student's family name.
	LastName string `csv:"Last Name" json:"last_name"`
	// FirstName is the student's given name.
	FirstName string `csv:"First Name" json:"first_name"`
	// Username uniquely identifies the student across roster, folders and exports.
	Username string `csv:"Username" json:"username"`
}

// Roster is an ordered list of students keyed by username.
type Roster struct {
	// Students in file order, without duplicates.
	Students []Student `json:"students"`
}

// Lookup returns the student with the given username.
func (r Roster) Lookup(username string) (Student, bool) {
	for _, s := range r.Students {
		if s.Username == username {
			return s, true
		}
	}
	return Student{}, false
}

// Usernames returns the usernames in roster order.
func (r Roster) Usernames() []string {
	out := make([]string, 0, len(r.Students))
	for _, s := range r.Students {
		out = append(out, s.Username)
	}
	return out
}

package models

// User is the signed-in trainee. Only a demo login exists.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Token  string `json:"token,omitempty"`
}

// Meta carries free-form header fields of the bundled training sheet,
// e.g. "员工" (employee) and "岗位" (position).
type Meta map[string]string

const (
	MetaEmployee = "员工"
	MetaPosition = "岗位"
)

// Employee returns the employee name from the sheet header.
func (m Meta) Employee() string { return m[MetaEmployee] }

// Position returns the position from the sheet header.
func (m Meta) Position() string { return m[MetaPosition] }

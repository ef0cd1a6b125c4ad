package errz

// ErrorCode identifies a class of runtime error. Codes use the E3xxx runtime
// range.
type ErrorCode string

const (
	E3001 ErrorCode = "E3001" // Type error
	E3002 ErrorCode = "E3002" // Division by zero
	E3003 ErrorCode = "E3003" // Index out of bounds
	E3004 ErrorCode = "E3004" // Member not found
	E3005 ErrorCode = "E3005" // Unbound variable
	E3006 ErrorCode = "E3006" // Stack overflow
	E3007 ErrorCode = "E3007" // Invalid operation
	E3011 ErrorCode = "E3011" // User function error
)

var codeDescriptions = map[ErrorCode]string{
	E3001: "type error",
	E3002: "division by zero",
	E3003: "index out of bounds",
	E3004: "member not found",
	E3005: "unbound variable",
	E3006: "stack overflow",
	E3007: "invalid operation",
	E3011: "user function error",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

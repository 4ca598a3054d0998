package services

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Services defined in this package:
// - AuthService: registration, login and token issuance
// - CourseService: course catalog management
// - StudentService: student profiles and the enroll/drop workflow

// studentIDPrefix is the fixed prefix of generated student identifiers.
const studentIDPrefix = "STU"

// generateStudentID builds a candidate identifier such as STU483920.
// Callers check it against the unique index and retry on collision; the
// database constraint is the final backstop.
func generateStudentID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// rand.Read failing means the platform entropy source is broken
		panic(fmt.Sprintf("crypto/rand unavailable: %v", err))
	}
	n := binary.BigEndian.Uint64(buf[:]) % 1000000
	return fmt.Sprintf("%s%06d", studentIDPrefix, n)
}

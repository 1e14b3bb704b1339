package usecase

import (
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const numberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateNumber builds a human-facing reference like ORD-1714550400000-K3J9QX2ZA
func generateNumber(prefix string) (string, error) {
	suffix, err := gonanoid.Generate(numberAlphabet, 9)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s number: %w", prefix, err)
	}
	return prefix + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix, nil
}

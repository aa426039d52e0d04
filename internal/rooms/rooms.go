// Package rooms assigns children to age-based rooms.
package rooms

import (
	"strconv"
	"strings"
)

type Room string

const (
	Nursery    Room = "Nursery"
	Preschool1 Room = "Preschool 1"
	Preschool2 Room = "Preschool 2"
	Preschool3 Room = "Preschool 3"
	Preschool4 Room = "Preschool 4"
	Juniors    Room = "Juniors"

	// Unassigned marks a child whose age could not be read. It is never
	// returned by Classify.
	Unassigned Room = "Unassigned"
)

var all = []Room{Nursery, Preschool1, Preschool2, Preschool3, Preschool4, Juniors}

// All returns the six rooms, youngest first.
func All() []Room {
	out := make([]Room, len(all))
	copy(out, all)
	return out
}

// Classify maps an age in whole years to its room. Negative ages count as Nursery.
func Classify(age int) Room {
	switch {
	case age <= 2:
		return Nursery
	case age == 3:
		return Preschool1
	case age <= 5:
		return Preschool2
	case age <= 7:
		return Preschool3
	case age <= 10:
		return Preschool4
	default:
		return Juniors
	}
}

// ForAge classifies an age stored as text. Missing or non-integer input
// yields (Unassigned, false).
func ForAge(text string) (Room, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 {
		return Unassigned, false
	}
	return Classify(n), true
}

var legacy = map[string]Room{
	"berçário":     Nursery,
	"bercario":     Nursery,
	"infantil 1":   Preschool1,
	"infantil 2":   Preschool2,
	"infantil 3":   Preschool3,
	"infantil 4":   Preschool4,
	"juniores":     Juniors,
	"não definida": Unassigned,
}

// Normalize converts room labels written by older versions to current ones.
func Normalize(label string) string {
	if r, ok := legacy[strings.ToLower(strings.TrimSpace(label))]; ok {
		return string(r)
	}
	return label
}

func Valid(label string) bool {
	for _, r := range all {
		if string(r) == label {
			return true
		}
	}
	return false
}

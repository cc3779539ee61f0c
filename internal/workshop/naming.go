package workshop

import (
	"fmt"
	"strconv"
	"strings"
)

// Instance names follow the pattern {base}-{ordinal} with ordinals
// assigned densely starting at 1. The primary is always {base}-1.

// InstanceName returns the name for the instance with the given ordinal.
func InstanceName(baseName string, ordinal int) string {
	return fmt.Sprintf("%s-%d", baseName, ordinal)
}

// PrimaryName returns the name of a group's primary instance.
func PrimaryName(baseName string) string {
	return InstanceName(baseName, 1)
}

// ParseInstanceName splits a persisted instance name into its base name and
// ordinal. It returns ok=false for names that do not end in "-{number}".
func ParseInstanceName(name string) (baseName string, ordinal int, ok bool) {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 || idx == len(name)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(name[idx+1:])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return name[:idx], n, true
}

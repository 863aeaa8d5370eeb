package grammar

import (
	"strconv"
	"strings"

	"waterworks/internal/domain"
)

// bucket identifies which line list of a rule is currently open.
type bucket int

const (
	bucketNone bucket = iota
	bucketConditions
	bucketThen
	bucketElse
)

// ParseRule parses one rule block. The first non-blank line must start
// with RULE; the rest of that line is the rule id. Subsequent lines are
// classified by leading keyword: IF/AND/OR open or extend the condition
// list, THEN the then-action list, ELSE the else-action list. A PRIORITY
// line sets the priority and is not stored as an action. Lines with no
// recognized leading keyword join whichever list is currently open.
// Line content is kept verbatim, whitespace-normalized.
func ParseRule(block string) (domain.Rule, error) {
	var r domain.Rule

	lines := strings.Split(block, "\n")
	idx := 0
	for idx < len(lines) && strings.TrimSpace(lines[idx]) == "" {
		idx++
	}
	if idx == len(lines) {
		return r, parseErr(block, "empty rule block")
	}

	first := strings.Fields(lines[idx])
	if !strings.EqualFold(first[0], "RULE") {
		return r, parseErr(lines[idx], "rule block must start with RULE")
	}
	r.ID = strings.Join(first[1:], " ")
	if r.ID == "" {
		return r, parseErr(lines[idx], "rule has no id")
	}

	open := bucketNone
	for _, raw := range lines[idx+1:] {
		tokens := strings.Fields(raw)
		if len(tokens) == 0 {
			continue
		}
		line := strings.Join(tokens, " ")

		switch strings.ToUpper(tokens[0]) {
		case "IF", "AND", "OR":
			r.Conditions = append(r.Conditions, line)
			open = bucketConditions
		case "THEN":
			r.ThenActions = append(r.ThenActions, line)
			open = bucketThen
		case "ELSE":
			r.ElseActions = append(r.ElseActions, line)
			open = bucketElse
		case "PRIORITY":
			if len(tokens) < 2 {
				return r, parseErr(raw, "PRIORITY needs a number")
			}
			v, err := strconv.ParseFloat(tokens[1], 64)
			if err != nil {
				return r, parseErr(raw, "priority is not a number")
			}
			r.Priority = &v
		default:
			switch open {
			case bucketConditions:
				r.Conditions = append(r.Conditions, line)
			case bucketThen:
				r.ThenActions = append(r.ThenActions, line)
			case bucketElse:
				r.ElseActions = append(r.ElseActions, line)
			default:
				return r, parseErr(raw, "line before any IF/THEN/ELSE keyword")
			}
		}
	}

	return r, nil
}

// FormatRule renders a rule block back to its canonical text form.
func FormatRule(r domain.Rule) string {
	var b strings.Builder
	b.WriteString("RULE ")
	b.WriteString(r.ID)
	for _, line := range r.Conditions {
		b.WriteString("\n")
		b.WriteString(line)
	}
	for _, line := range r.ThenActions {
		b.WriteString("\n")
		b.WriteString(line)
	}
	for _, line := range r.ElseActions {
		b.WriteString("\n")
		b.WriteString(line)
	}
	if r.Priority != nil {
		b.WriteString("\nPRIORITY ")
		b.WriteString(strconv.FormatFloat(*r.Priority, 'g', -1, 64))
	}
	return b.String()
}

package grammar

import (
	"strconv"
	"strings"

	"waterworks/internal/domain"
)

// ParseSimpleControl parses one simple-control statement:
//
//	LINK <id> <status> IF NODE <id> <ABOVE|BELOW> <number>
//	LINK <id> <status> AT TIME <time>
//	LINK <id> <status> AT CLOCKTIME <time>
//
// Keywords are case-insensitive. The IF/AT keyword is located anywhere in
// the line rather than at a fixed position, matching the tolerant
// behavior of existing network files.
func ParseSimpleControl(text string) (domain.SimpleControl, error) {
	var c domain.SimpleControl

	tokens := strings.Fields(text)
	if len(tokens) < 4 {
		return c, parseErr(text, "control needs at least 4 tokens")
	}
	if !strings.EqualFold(tokens[0], "LINK") {
		return c, parseErr(text, "control must start with LINK")
	}

	c.Link = tokens[1]
	c.Status = strings.ToUpper(tokens[2])

	ifAt := -1
	for i, tok := range tokens {
		if strings.EqualFold(tok, "IF") || strings.EqualFold(tok, "AT") {
			ifAt = i
			break
		}
	}
	if ifAt < 0 {
		return c, parseErr(text, "control is missing an IF or AT clause")
	}

	if strings.EqualFold(tokens[ifAt], "IF") {
		// LINK x s IF NODE n ABOVE/BELOW v
		if len(tokens) < ifAt+5 {
			return c, parseErr(text, "incomplete node condition")
		}
		if !strings.EqualFold(tokens[ifAt+1], "NODE") {
			return c, parseErr(text, "IF clause must name a NODE")
		}
		c.Kind = domain.ControlNodeLevel
		c.Node = tokens[ifAt+2]
		switch strings.ToUpper(tokens[ifAt+3]) {
		case "ABOVE":
			c.Compare = domain.CompareAbove
		case "BELOW":
			c.Compare = domain.CompareBelow
		default:
			return c, parseErr(text, "comparison must be ABOVE or BELOW")
		}
		v, err := strconv.ParseFloat(tokens[ifAt+4], 64)
		if err != nil {
			return c, parseErr(text, "comparison value is not a number")
		}
		c.Threshold = v
		return c, nil
	}

	// LINK x s AT TIME/CLOCKTIME t
	if len(tokens) < ifAt+3 {
		return c, parseErr(text, "incomplete time clause")
	}
	switch strings.ToUpper(tokens[ifAt+1]) {
	case "TIME":
		c.Kind = domain.ControlTimer
	case "CLOCKTIME":
		c.Kind = domain.ControlClockTime
	default:
		return c, parseErr(text, "AT clause must be TIME or CLOCKTIME")
	}
	// A clock time may span tokens ("10:00 AM").
	c.Time = strings.Join(tokens[ifAt+2:], " ")
	return c, nil
}

// FormatSimpleControl renders a control back to its canonical text form.
func FormatSimpleControl(c domain.SimpleControl) string {
	var b strings.Builder
	b.WriteString("LINK ")
	b.WriteString(c.Link)
	b.WriteString(" ")
	b.WriteString(c.Status)

	switch c.Kind {
	case domain.ControlNodeLevel:
		b.WriteString(" IF NODE ")
		b.WriteString(c.Node)
		b.WriteString(" ")
		b.WriteString(string(c.Compare))
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(c.Threshold, 'g', -1, 64))
	case domain.ControlTimer:
		b.WriteString(" AT TIME ")
		b.WriteString(c.Time)
	case domain.ControlClockTime:
		b.WriteString(" AT CLOCKTIME ")
		b.WriteString(c.Time)
	}
	return b.String()
}

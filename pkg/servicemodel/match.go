package servicemodel

import "strings"

// trimAction strips surrounding whitespace and quotes from a SOAP action,
// the shape SOAPAction transport headers are conventionally sent in.
func trimAction(action string) string {
	return strings.Trim(strings.TrimSpace(action), `"`)
}

// trimAndClear additionally strips a leading namespace URI prefix (anything
// up to and including the last '/' or '#'), used as the last-resort
// matching fallback.
func trimAndClear(action string) string {
	trimmed := trimAction(action)
	if i := strings.LastIndexAny(trimmed, "/#"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

// matchAction applies the SOAP action matching rules in order, first hit
// wins:
//  1. operation's declared action equals incoming action (exact)
//  2. operation's name equals a trimmed form of the incoming action
//  3. incoming action equals a trimmed form of the operation name
//  4. incoming action equals a trimmed-and-cleared form of the operation's
//     declared action
func matchAction(c *ContractDescription, action string) (*OperationDescription, bool) {
	for i := range c.Operations {
		op := &c.Operations[i]
		if op.Action == action {
			return op, true
		}
	}
	trimmed := trimAction(action)
	for i := range c.Operations {
		op := &c.Operations[i]
		if op.Name == trimmed {
			return op, true
		}
	}
	for i := range c.Operations {
		op := &c.Operations[i]
		if action == trimAction(op.Name) {
			return op, true
		}
	}
	for i := range c.Operations {
		op := &c.Operations[i]
		if action == trimAndClear(op.Action) {
			return op, true
		}
	}
	return nil, false
}

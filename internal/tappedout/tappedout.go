// Package tappedout reads and writes the tappedout.net board list format.
// A list line looks like "2x Delver of Secrets (ISD:51) *F* *SL*": a count,
// an HTML-escaped card name, a set and collector number, and optional
// trailing foil and condition tags.
package tappedout

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"qmtg/internal/card"
)

// LineError records a list line that could not be parsed, so callers can
// report it and move on.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// ParseCardID parses "Name (SET:NUM)" into a card carrying only a name, a
// set code, and a collector number. The name portion is HTML-unescaped.
func ParseCardID(line string) (card.Card, error) {
	line = strings.TrimSpace(line)
	idx := strings.LastIndex(line, " ")
	if idx < 0 {
		return card.Card{}, fmt.Errorf("missing set identifier in %q", line)
	}
	name := html.UnescapeString(line[:idx])
	rawSet := line[idx+1:]
	if len(rawSet) < 2 || rawSet[0] != '(' || rawSet[len(rawSet)-1] != ')' {
		return card.Card{}, fmt.Errorf("set identifier %q is not parenthesized", rawSet)
	}
	rawSet = rawSet[1 : len(rawSet)-1]
	setCode, num, _ := strings.Cut(rawSet, ":")
	return card.Card{
		Set:    strings.ToLower(setCode),
		Number: num,
		Faces:  []card.Face{{Name: name}},
	}, nil
}

// ToCardID renders the "Name (SET:NUM)" form of a card.
func ToCardID(c card.Card) string {
	setnum := strings.ToUpper(c.Set)
	if c.Number != "" {
		setnum += ":" + c.Number
	}
	return fmt.Sprintf("%s (%s)", c.Faces[0].Name, setnum)
}

// ParseCardLine parses a card identifier with optional trailing "*F*" and
// condition tags.
func ParseCardLine(line string) (card.OwnedCard, error) {
	line = strings.TrimSpace(line)
	foil := false
	cond := card.Mint
	for {
		idx := strings.LastIndex(line, " ")
		if idx < 0 {
			break
		}
		tag := line[idx+1:]
		if !strings.HasPrefix(tag, "*") || !strings.HasSuffix(tag, "*") || len(tag) < 2 {
			break
		}
		if tag == "*F*" {
			foil = true
		} else {
			cond = card.ConditionFromSymbol(tag)
		}
		line = line[:idx]
	}
	c, err := ParseCardID(line)
	if err != nil {
		return card.OwnedCard{}, err
	}
	return card.OwnedCard{Card: c, Condition: cond, Foil: foil, Count: 1}, nil
}

// ToCardLine renders a card identifier with its foil and condition tags.
func ToCardLine(c card.OwnedCard) string {
	line := ToCardID(c.Card)
	if c.Foil {
		line += " *F*"
	}
	if c.Condition != card.Mint {
		line += " *" + c.Condition.Symbol + "*"
	}
	return line
}

// ParseListLine parses a full board list line, count included.
func ParseListLine(line string) (card.OwnedCard, error) {
	line = strings.TrimSpace(line)
	rawCount, rest, ok := strings.Cut(line, " ")
	if !ok {
		return card.OwnedCard{}, fmt.Errorf("missing card after count in %q", line)
	}
	count, err := strconv.Atoi(strings.TrimSuffix(rawCount, "x"))
	if err != nil {
		return card.OwnedCard{}, fmt.Errorf("bad count %q: %w", rawCount, err)
	}
	c, err := ParseCardLine(rest)
	if err != nil {
		return card.OwnedCard{}, err
	}
	c.Count = count
	return c, nil
}

// ToListLine renders a full board list line.
func ToListLine(c card.OwnedCard) string {
	return fmt.Sprintf("%dx %s", c.Count, ToCardLine(c))
}

// ParseList reads a board list, one card per line. Blank lines are skipped
// and malformed lines are collected rather than aborting the parse; the
// returned error is non-nil only when no line yields a card at all.
func ParseList(r io.Reader) ([]card.OwnedCard, []LineError, error) {
	var cards []card.OwnedCard
	var bad []LineError
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		c, err := ParseListLine(text)
		if err != nil {
			bad = append(bad, LineError{Line: lineno, Text: text, Err: err})
			continue
		}
		cards = append(cards, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, bad, err
	}
	if len(cards) == 0 {
		return nil, bad, fmt.Errorf("no lines containing cards found")
	}
	return cards, bad, nil
}

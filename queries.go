package pg

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Queries is an ordered set of named SQL statements. Statements are
// introduced by a comment line holding only the name, for example:
//
//	-- task.insert
//	INSERT INTO ${"schema"}.tasks (type, execution_time) VALUES (@type, @execution_time)
//
// Lines before the first name are ignored, so a file may carry a header.
type Queries struct {
	keys    []string
	queries map[string]string
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	reQueryName = regexp.MustCompile(`^--\s*([a-zA-Z][a-zA-Z0-9_.-]*)\s*$`)
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewQueries reads named statements from r. It returns ErrBadParameter when
// a name is repeated or a named statement is empty.
func NewQueries(r io.Reader) (*Queries, error) {
	self := &Queries{
		queries: make(map[string]string),
	}

	var key string
	var sql strings.Builder
	flush := func() error {
		if key == "" {
			return nil
		}
		stmt := strings.TrimSpace(sql.String())
		if stmt == "" {
			return ErrBadParameter.Withf("empty statement %q", key)
		}
		self.queries[key] = strings.TrimSuffix(stmt, ";")
		self.keys = append(self.keys, key)
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if match := reQueryName.FindStringSubmatch(line); match != nil {
			if err := flush(); err != nil {
				return nil, err
			}
			key = match[1]
			if _, exists := self.queries[key]; exists {
				return nil, ErrBadParameter.Withf("duplicate statement %q", key)
			}
			sql.Reset()
			continue
		}
		if key != "" {
			sql.WriteString(line)
			sql.WriteByte('\n')
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	// Return success
	return self, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Keys returns the statement names in the order they were read.
func (s *Queries) Keys() []string {
	return s.keys
}

// Get returns a statement by name, or an empty string.
func (s *Queries) Get(key string) string {
	return s.queries[key]
}

package prompt

import "github.com/pkg/errors"

// Scripted is a Prompter test double that replays canned answers and
// records the questions it was asked. The zero value declines every
// confirmation and errors on input requests.
type Scripted struct {
	Confirmations []bool
	Lines         []string

	// Questions records every Confirm and ReadLine prompt in order.
	Questions []string

	confirmIdx int
	lineIdx    int
}

func (s *Scripted) Confirm(question string) (bool, error) {
	s.Questions = append(s.Questions, question)

	if s.confirmIdx >= len(s.Confirmations) {
		return false, nil
	}

	answer := s.Confirmations[s.confirmIdx]
	s.confirmIdx++
	return answer, nil
}

func (s *Scripted) ReadLine(prompt string) (string, error) {
	s.Questions = append(s.Questions, prompt)

	if s.lineIdx >= len(s.Lines) {
		return "", errors.Errorf("no scripted answer for prompt '%s'", prompt)
	}

	line := s.Lines[s.lineIdx]
	s.lineIdx++
	return line, nil
}

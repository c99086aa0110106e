package command

import "regexp"

// dangerRule scales down confidence when the utterance matches a risky
// pattern, pushing the command into the gate's confirm or reject band.
type dangerRule struct {
	re   *regexp.Regexp
	damp float64
}

func defaultDangerRules() []dangerRule {
	return []dangerRule{
		// Destructive file operations need explicit confirmation at best.
		{re: regexp.MustCompile(`(?i)\b(delete|remove|erase|wipe)\b`), damp: 0.6},
		// Whole-machine actions never auto-execute.
		{re: regexp.MustCompile(`(?i)\b(shutdown|shut\s+down|reboot|restart)\b.*\b(computer|system|machine|pc)\b`), damp: 0.3},
		{re: regexp.MustCompile(`(?i)\bformat\b`), damp: 0.2},
		{re: regexp.MustCompile(`(?i)\ball\b.*\b(files|folders|directories)\b`), damp: 0.5},
	}
}

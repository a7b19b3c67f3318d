package homework

import "fmt"

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the fixed text for s, or "" for an unknown status.
func Verdict(s Status) string { return verdicts[s] }

// Render formats the change notification for r.
//
// r must come from Validate; the status is not checked again here.
func Render(r Record) string {
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", r.Name, verdicts[r.Status])
}

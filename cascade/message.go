package cascade

import "fmt"

const confirmationFormat = "This project has %s associated with it. Deleting the project will also delete all associated data. Are you sure you want to continue?"

// ConfirmationMessage returns the warning shown before deleting a project
// with dependents. It returns "" when there is nothing to confirm.
func ConfirmationMessage(c Counts) string {
	if c.Total() == 0 {
		return ""
	}
	return fmt.Sprintf(confirmationFormat, c.Summary())
}

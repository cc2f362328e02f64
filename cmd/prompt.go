package cmd

import (
	huh "charm.land/huh/v2"
)

// huhPrompter asks for confirmation with a huh form on the terminal.
type huhPrompter struct{}

func (huhPrompter) Confirm(title, body string) (bool, error) {
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(body).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dispatch

import (
	"context"

	"github.com/danielhkuo/payshoff/middleware"
	"github.com/danielhkuo/payshoff/models"
	"github.com/danielhkuo/payshoff/page"
)

// ActionSetName labels rename results
const ActionSetName = "setname"

// SetNamePath is not game scoped
const SetNamePath = "/setname"

// Prompter asks the user for a line of text. ok is false when the user
// cancels.
type Prompter interface {
	Prompt(label, defaultValue string) (answer string, ok bool)
}

// BindRename wires trigger to Rename, seeding the prompt with the text of
// current as it is now.
func BindRename(d *Dispatcher, trigger, current *page.Element, prompter Prompter) {
	username := ""
	if current != nil {
		username = current.Text
	}
	trigger.OnClick(func(ctx context.Context, _ *page.Element) {
		d.Rename(ctx, username, prompter)
	})
}

// Rename prompts for a new name and posts it. The view is reloaded
// whatever the server answers; only a failed request stops it.
func (d *Dispatcher) Rename(ctx context.Context, username string, prompter Prompter) Result {
	result := d.rename(ctx, username, prompter)
	d.report(result)
	return result
}

func (d *Dispatcher) rename(ctx context.Context, username string, prompter Prompter) Result {
	result := Result{Action: ActionSetName}

	name, ok := prompter.Prompt("Change Username", username)
	if !ok {
		result.Outcome = Cancelled
		return result
	}

	resp, err := d.poster.PostJSON(ctx, SetNamePath, models.SetNameRequest{Name: name})
	if err != nil {
		result.Outcome = NetworkError
		result.Err = err
		return result
	}
	result.Status = resp.StatusCode
	middleware.Drain(resp)

	result.Outcome = Reloaded
	result.Err = d.reload(ctx)
	return result
}

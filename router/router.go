// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"strconv"

	"github.com/danielhkuo/payshoff/dispatch"
	"github.com/danielhkuo/payshoff/models"
	"github.com/danielhkuo/payshoff/page"
)

// UI is what the bindings need from the user
type UI interface {
	dispatch.Prompter
	Alert(message string)
}

// Wire binds every action element present on p
func Wire(p *page.Page, d *dispatch.Dispatcher, ui UI) {
	ignore := func(string) {}

	// Game actions
	if el := p.ByID(page.IDAddItem); el != nil {
		dispatch.Bind(d, el, addOption(ui), models.ActionAdd, ignore)
	}
	if el := p.ByID(page.IDSelectItem); el != nil {
		dispatch.Bind(d, el, empty, models.ActionSelect, ignore)
	}

	// Admin actions
	if el := p.ByID(page.IDAdminSkip); el != nil {
		dispatch.Bind(d, el, empty, models.ActionAdminSkip, ignore)
	}
	if el := p.ByID(page.IDAdminToggle); el != nil {
		dispatch.Bind(d, el, empty, models.ActionToggleDecisionMode, ignore)
	}

	// One per option / participant
	for _, el := range p.ByClass(page.ClassTrash) {
		dispatch.Bind(d, el, deleteOption, models.ActionDelete, ui.Alert)
	}
	for _, el := range p.ByClass(page.ClassGavel) {
		dispatch.Bind(d, el, kick, models.ActionAdminKick, ui.Alert)
	}

	// Username
	if el := p.ByID(page.IDUsernameEdit); el != nil {
		dispatch.BindRename(d, el, p.ByID(page.IDCurrentUsername), ui)
	}
}

func empty(*page.Element) (models.EmptyRequest, bool) {
	return models.EmptyRequest{}, true
}

func addOption(prompter dispatch.Prompter) dispatch.Extractor[models.AddOptionRequest] {
	return func(*page.Element) (models.AddOptionRequest, bool) {
		option, ok := prompter.Prompt("Add Option", "")
		if !ok {
			return models.AddOptionRequest{}, false
		}
		return models.AddOptionRequest{Option: option}, true
	}
}

// deleteOption converts the page's one-based option number to the
// server's zero-based index
func deleteOption(t *page.Element) (models.DeleteOptionRequest, bool) {
	text, ok := t.Attr(page.AttrOption)
	if !ok {
		return models.DeleteOptionRequest{}, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return models.DeleteOptionRequest{}, false
	}
	return models.DeleteOptionRequest{Option: n - 1}, true
}

func kick(t *page.Element) (models.KickRequest, bool) {
	name, ok := t.Attr(page.AttrName)
	if !ok {
		return models.KickRequest{}, false
	}
	return models.KickRequest{Target: name}, true
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires a game page's elements to their actions.

# Bindings

	router.Wire(p, dispatcher, ui)

	#add-new-item   → add              prompt "Add Option", {"option": text}
	#select-item    → sel              {}
	#adm-skip       → adm_skip         {}
	#adm-toggle     → toggle_dec_mode  {}
	.fa-trash       → del              {"option": option-1}, errors alerted
	.fa-gavel       → adm_kick         {"target": name}, errors alerted
	#username-edit  → /setname         prompt seeded from #current-username

Errors from the four button actions are ignored. The page reload after a
successful action is the only feedback for them.

Elements missing from the page are not wired. The server only renders the
controls the user may use.

A trash icon without a numeric option attribute, or a gavel icon without
a name, cancels the click.
*/
package router

package main

import (
	"fmt"
)

const complete = `#! /bin/bash

_svorel_autocomplete() {
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"

    # the app prints the candidates for the words before the cursor
    opts=$("${COMP_WORDS[@]:0:$COMP_CWORD}" --generate-bash-completion 2>/dev/null)

    COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
    return 0
}

complete -o default -F _svorel_autocomplete svorel
`

func bashCommand(ui UI) error {
	_, err := fmt.Fprint(ui.Out, complete)
	return err
}

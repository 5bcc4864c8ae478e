package domain

import "errors"

// ErrNoSlot indica que nenhuma vaga de auditoria foi liberada dentro do prazo.
var ErrNoSlot = errors.New("no audit slot available")

// Package all registers every bookmaker source via side-effect imports.
// Binaries that select sources by name import this package blank.
package all

import (
	_ "github.com/linesmith/linesmith/internal/sources/bovada"
	_ "github.com/linesmith/linesmith/internal/sources/tipico"
	_ "github.com/linesmith/linesmith/internal/sources/unibet"
)

// betnorm-lint is a custom static analyzer for betnorm hot paths.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/betnorm/tools/betnorm-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}

////////////////////////////////////////////////////////////////////////////////
// DAO factory: fundraising DAOs with a governance token ledger
////////////////////////////////////////////////////////////////////////////////

package main

import (
	"os"

	"dao_factory/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

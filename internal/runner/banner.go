package runner

import (
	"github.com/projectdiscovery/arptable/pkg/version"
	"github.com/projectdiscovery/gologger"
)

const banner = `
                 __       __    __
 ___ _ _______  / /____ _/ /   / /__
/ _ '/ __/ _ \/ __/ _ '/ _ \ / / -_)
\_,_/_/ / .__/\__/\_,_/_.__//_/\__/
       /_/
`

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tarptable %s\n\n", version.GetVersion())
}

package main

import (
	"github.com/melodio/melodio-go/cmd/melodio/commands"
	_ "github.com/melodio/melodio-go/cmd/melodio/commands/browse"
	_ "github.com/melodio/melodio-go/cmd/melodio/commands/library"
	_ "github.com/melodio/melodio-go/cmd/melodio/commands/playlists"
	_ "github.com/melodio/melodio-go/cmd/melodio/commands/search"
)

func main() {
	commands.Execute()
}

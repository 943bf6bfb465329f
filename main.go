package main

import (
	"github.com/samber/lo"
	"github.com/spacedl/spacedl/cmd"
	"github.com/spacedl/spacedl/config"
	"github.com/spacedl/spacedl/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())
	cmd.Execute()
}

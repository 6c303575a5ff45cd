package main

import (
	"embed"

	"github.com/IxSyZ/my-life-diary/cmd"
)

//go:embed frontend
var efs embed.FS

//go:embed config/config.yaml
var c string

func main() {
	cmd.Execute(efs, c)
}

package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/uniyakcom/embjson/profile"
)

// sizeCommand 测量样本文档并推荐固定 Arena 容量
type sizeCommand struct {
	cli      *cli
	file     *string
	headroom *int
}

func (cmd *sizeCommand) run(_ *kingpin.ParseContext) error {
	data, err := os.ReadFile(*cmd.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	p := cmd.cli.resolve()
	if !p.Fixed() {
		// 可增长 Profile 也给出固定 Arena 的推荐
		p.Slots, p.Bytes = 1, 1
	}
	advised, err := (&profile.Advisor{Headroom: *cmd.headroom}).Advise(p, data)
	if err != nil {
		return fmt.Errorf("%s: %w", *cmd.file, err)
	}
	bold := color.New(color.Bold)
	bold.Fprintf(cmd.cli.stdout, "%s:\n", *cmd.file)
	fmt.Fprintf(cmd.cli.stdout, "\t%s\n", advised)
	return nil
}

func addSizeCommand(app *kingpin.Application, c *cli) {
	cmd := &sizeCommand{cli: c}
	size := app.Command("size", "Recommend fixed arena capacity for a sample document.").Action(cmd.run)
	cmd.headroom = size.Flag("headroom", "Extra capacity in percent.").Default("25").Int()
	cmd.file = size.Arg("file", "Sample document.").Required().ExistingFile()
}

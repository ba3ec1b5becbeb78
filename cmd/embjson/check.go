package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/uniyakcom/embjson/batch"
)

// checkCommand 并发解析每个文件并报告结果
type checkCommand struct {
	cli   *cli
	files *[]string
}

func (cmd *checkCommand) run(_ *kingpin.ParseContext) error {
	docs := make([][]byte, len(*cmd.files))
	for i, name := range *cmd.files {
		data, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		docs[i] = data
	}

	p := cmd.cli.resolve()
	// 报告中的错误偏移基于原始输入，不做就地改写
	p.InPlace = false
	b, err := batch.New(batch.Config{Profile: p, Logger: cmd.cli.logger()})
	if err != nil {
		return err
	}
	defer b.Close()

	results, err := b.ParseAll(context.Background(), docs)
	if err != nil {
		return err
	}
	defer batch.ReleaseAll(results)

	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	rejected := false
	for i, r := range results {
		name := (*cmd.files)[i]
		if r.Err != nil {
			rejected = true
			fmt.Fprintf(cmd.cli.stdout, "%s %s: %v\n", fail.Sprint("FAIL"), name, r.Err)
			continue
		}
		fmt.Fprintf(cmd.cli.stdout, "%s %s: %s, %d slots, %s strings\n",
			ok.Sprint("OK"), name, r.Root.Kind(), r.Slots, humanize.Bytes(uint64(r.Bytes)))
	}
	if rejected {
		return errRejected
	}
	return nil
}

func addCheckCommand(app *kingpin.Application, c *cli) {
	cmd := &checkCommand{cli: c}
	check := app.Command("check", "Parse each file and report OK or the first error.").Action(cmd.run)
	cmd.files = check.Arg("file", "Files to check.").Required().ExistingFiles()
}

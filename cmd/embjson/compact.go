package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/uniyakcom/embjson/json"
	"github.com/uniyakcom/embjson/profile"
)

// compactCommand 重新序列化为紧凑 JSON（方言扩展被规范化为标准 JSON）
type compactCommand struct {
	cli  *cli
	file *string
}

func (cmd *compactCommand) run(_ *kingpin.ParseContext) error {
	data, err := os.ReadFile(*cmd.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	p := cmd.cli.resolve()
	root, err := profile.Parse(profile.New(p), p, data)
	if err != nil {
		return fmt.Errorf("%s: %w", *cmd.file, err)
	}
	out := json.AppendNode(nil, root)
	out = append(out, '\n')
	_, err = cmd.cli.stdout.Write(out)
	return err
}

func addCompactCommand(app *kingpin.Application, c *cli) {
	cmd := &compactCommand{cli: c}
	compact := app.Command("compact", "Rewrite a document as compact standard JSON.").Action(cmd.run)
	cmd.file = compact.Arg("file", "File to compact.").Required().ExistingFile()
}

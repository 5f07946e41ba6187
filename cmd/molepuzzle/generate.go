package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/molepuzzle/internal/imagegen"
)

var (
	flagGenWidth  int
	flagGenHeight int
	flagGenFormat string
	flagGenOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a puzzle picture",
	Long: `Generate a picture from a text prompt and store it as a character.

The image backend is configured with MOLEPUZZLE_IMAGE_API_URL and
MOLEPUZZLE_IMAGE_API_KEY (a .env file in the working directory is read).
Without a backend, or when it fails, a placeholder picture is produced.

Examples:
  molepuzzle generate "a mole wearing sunglasses"
  molepuzzle generate "a castle at dusk" --width 800 --height 600 --out castle.png`,
	Args: cobra.MinimumNArgs(1),
	Run:  runGenerate,
}

func init() {
	defaults := imagegen.DefaultOptions()
	generateCmd.Flags().IntVar(&flagGenWidth, "width", defaults.Width, "Image width in pixels")
	generateCmd.Flags().IntVar(&flagGenHeight, "height", defaults.Height, "Image height in pixels")
	generateCmd.Flags().StringVar(&flagGenFormat, "format", defaults.Format, "Image format: "+strings.Join(imagegen.Formats, ", "))
	generateCmd.Flags().StringVar(&flagGenOut, "out", "", "Also write the image to this file")
}

func runGenerate(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	prompt := strings.Join(args, " ")
	opts := imagegen.Options{Width: flagGenWidth, Height: flagGenHeight, Format: flagGenFormat}

	if err := imagegen.Validate(prompt, opts); err != nil {
		fail("%v", err)
	}

	a, err := openApp(ctx, newLogger(cmd.ErrOrStderr(), "molepuzzle"))
	if err != nil {
		fail("%v", err)
	}
	defer a.Close()

	c, err := a.createCharacter(ctx, prompt, opts)
	if err != nil {
		fail("generating image: %v", err)
	}

	kind := "generated"
	if c.Placeholder {
		kind = "placeholder"
	}
	fmt.Printf("Character %s (%s)\n", c.ID, kind)
	fmt.Printf("  %dx%d %s, %s\n", c.Width, c.Height, c.Format, humanize.Bytes(uint64(len(c.Image))))

	if flagGenOut != "" {
		if err := os.WriteFile(flagGenOut, c.Image, 0o644); err != nil {
			fail("writing %s: %v", flagGenOut, err)
		}
		fmt.Printf("  Written to %s\n", flagGenOut)
	}
}

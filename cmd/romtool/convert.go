package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-romtool/protocol"
	"github.com/moffa90/go-romtool/romfile"
)

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert an image between raw, Intel HEX and console dump form.",
	Long: `Reads FILE (raw, or Intel HEX for .hex files) padded to the chip size.
With --output the image is saved in the format named by the output
extension; otherwise it is printed as console hex lines ready to paste after
the F command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		image, err := romfile.Load(args[0], size)
		if err != nil {
			return err
		}
		if output != "" {
			return romfile.Save(output, image)
		}

		out := cmd.OutOrStdout()
		if err := protocol.Dump(out, image, 0, uint32(len(image))); err != nil {
			return err
		}
		_, err = fmt.Fprintln(out)
		return err
	},
}

func init() {
	convertCmd.Flags().Int("size", chipSize, "image size in bytes")
	convertCmd.Flags().StringP("output", "o", "", "output file (.hex for Intel HEX, raw otherwise)")
	rootCmd.AddCommand(convertCmd)
}

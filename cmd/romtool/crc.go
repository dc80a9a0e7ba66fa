package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-romtool/protocol"
	"github.com/moffa90/go-romtool/romfile"
)

var crcCmd = &cobra.Command{
	Use:   "crc FILE",
	Short: "Print the checksum the C command reports for an image file.",
	Long: `Pads FILE to the chip size with 0xff and prints the same checksum the
console's C command would report after loading it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := cmd.Flags().GetInt("size")
		if err != nil {
			return err
		}
		image, err := romfile.Load(args[0], size)
		if err != nil {
			return err
		}
		crc := protocol.Checksum(image)
		fmt.Fprintf(cmd.OutOrStdout(), "CRC is : 0x%x (dec %d)\n", crc, crc)
		return nil
	},
}

func init() {
	crcCmd.Flags().Int("size", chipSize, "image size in bytes")
	rootCmd.AddCommand(crcCmd)
}

// Command romtool serves the ROM reader console over a serial line and
// converts or checksums image files.
package main

func main() {
	Execute()
}

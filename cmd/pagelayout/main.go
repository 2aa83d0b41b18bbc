// Command pagelayout reorders, deskews and clips recognized document pages.
//
//	pagelayout order page.json --markdown
//	pagelayout skew page.json
//	pagelayout clip scan.png 10 10 200 12 8 60 198 62 -o region.png
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

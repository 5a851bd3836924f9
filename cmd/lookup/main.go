package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/meur/iconforge/internal/catalog"
)

func main() {
	assets := flag.String("assets", "./assets.txt", "Dataset JSON file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: lookup [-assets file] id...")
		os.Exit(2)
	}

	index, err := catalog.Build(*assets)
	if err != nil {
		log.Fatal(err)
	}

	for _, id := range flag.Args() {
		hex, ok := catalog.HexKeyFromDecimal(id)
		if !ok {
			hex = "-"
		}

		item, err := index.Resolve(id)
		if err != nil {
			fmt.Printf("%s hex=%q not found\n", id, hex)
			continue
		}

		record, _ := json.Marshal(item)
		fmt.Printf("%s hex=%q icon=%q rare=%s %s\n", id, hex, item.Icon, item.Rare, record)
	}
}

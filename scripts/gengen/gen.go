package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tcfw/ledgerd/pkg/ledger"
	"github.com/vmihailenco/msgpack/v5"
)

// Prints the genesis block every node starts from with its fingerprint, so
// operators can check a peer's chain root by hand.
func main() {
	g := ledger.Genesis()

	fp, err := ledger.New().Fingerprint(g)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	b, err := msgpack.Marshal(&g)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	j, _ := json.MarshalIndent(&g, "", "  ")

	fmt.Printf("%s\n", j)
	fmt.Printf("fingerprint: %s\n", fp)
	fmt.Printf("msgpack: %s\n", base64.StdEncoding.EncodeToString(b))
}

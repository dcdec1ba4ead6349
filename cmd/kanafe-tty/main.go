package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"kanafe/internal/kana"
)

// kanafe-tty converts romaji from stdin to hiragana line by line,
// useful for piping text through the conversion table without an
// interactive session.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kanafe-tty: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()

	for scanner.Scan() {
		if _, err := writer.WriteString(kana.String(scanner.Text())); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	return scanner.Err()
}

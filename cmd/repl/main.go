// Command repl is a line-oriented client for the SQL wire protocol
// (§4.10): one statement per prompt, printed until the terminating NUL.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
)

var flagAddr = flag.String("addr", "127.0.0.1:9000", "server address")

func main() {
	flag.Parse()

	conn, err := net.Dial("tcp", *flagAddr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect error:", err)
		os.Exit(1)
	}
	defer conn.Close()

	sc := bufio.NewScanner(os.Stdin)
	reader := bufio.NewReader(conn)
	interactive := false
	if fi, err := os.Stdin.Stat(); err == nil {
		interactive = (fi.Mode() & os.ModeCharDevice) != 0
	}

	for {
		if interactive {
			fmt.Print("sql> ")
		}
		if !sc.Scan() {
			os.Exit(0)
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			os.Exit(0)
		}
		if _, err := fmt.Fprintln(conn, line); err != nil {
			fmt.Fprintln(os.Stderr, "send error:", err)
			os.Exit(1)
		}
		resp, err := reader.ReadString(0x00)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		fmt.Print(resp[:len(resp)-1])
	}
}

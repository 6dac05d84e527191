package cli

// terminalNotifier prints feed notifications inline with the REPL output.
type terminalNotifier struct {
	out *console
}

func (n *terminalNotifier) Success(msg string) { n.out.Println("[ok]", msg) }

func (n *terminalNotifier) Info(msg string) { n.out.Println("[info]", msg) }

func (n *terminalNotifier) Error(msg string) { n.out.Println("[error]", msg) }

// Bell rings the terminal bell.
func (n *terminalNotifier) Bell() { n.out.Printf("\a") }

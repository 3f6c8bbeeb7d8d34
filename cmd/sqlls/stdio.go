package main

import "os"

// stdio adapts os.Stdin/os.Stdout into the single io.ReadWriteCloser
// lspserver.Server.Serve expects. Close closes stdout only: stdin's
// lifecycle belongs to whatever editor process spawned this one.
type stdio struct{}

func (stdio) Read(p []byte) (int, error) {
	return os.Stdin.Read(p)
}

func (stdio) Write(p []byte) (int, error) {
	return os.Stdout.Write(p)
}

func (stdio) Close() error {
	return os.Stdout.Close()
}

// Package sshexec runs commands on a remote host over a persistent SSH
// connection. It is the transport behind the remote repository backend:
// the same git orchestration logic runs against it through the
// CommandRunner adapter in runner.go.
package sshexec

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"

	"golang.org/x/crypto/ssh"
)

// Result carries one remote command's captured output.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Session is the minimal channel contract the runner needs; Client is
// the real implementation.
type Session interface {
	Run(cmd string) (Result, error)
}

// Client is a lazily-dialed SSH connection. A dropped connection is
// re-established on the next Run.
type Client struct {
	addr   string
	config *ssh.ClientConfig

	mu   sync.Mutex
	conn *ssh.Client
}

// NewClient prepares a client for user@host:port authenticated with the
// private key at keyPath. No connection is made until the first Run.
func NewClient(host string, port int, user, keyPath string) (*Client, error) {
	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	signer, err := ssh.ParsePrivateKey(keyData)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	if port == 0 {
		port = 22
	}

	return &Client{
		addr: net.JoinHostPort(host, strconv.Itoa(port)),
		config: &ssh.ClientConfig{
			User:            user,
			Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		},
	}, nil
}

func (c *Client) connect() (*ssh.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}
	conn, err := ssh.Dial("tcp", c.addr, c.config)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", c.addr, err)
	}
	c.conn = conn
	return conn, nil
}

func (c *Client) drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// Run executes one shell command remotely and captures its output. A
// nonzero exit is not an error at this level; it is reported through
// Result.ExitCode with stderr preserved.
func (c *Client) Run(cmd string) (Result, error) {
	conn, err := c.connect()
	if err != nil {
		return Result{}, err
	}

	session, err := conn.NewSession()
	if err != nil {
		// Stale connection: drop it and dial once more.
		c.drop()
		conn, err = c.connect()
		if err != nil {
			return Result{}, err
		}
		session, err = conn.NewSession()
		if err != nil {
			return Result{}, fmt.Errorf("opening session: %w", err)
		}
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	if err := session.Run(cmd); err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return Result{
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitStatus(),
			}, nil
		}
		c.drop()
		return Result{}, fmt.Errorf("running remote command: %w", err)
	}

	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Close tears down the connection if one is open.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

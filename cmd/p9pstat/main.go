// Command p9pstat attaches to a 9P2000.u server, walks to a path, and
// prints its stat record. It exercises the full client surface
// end-to-end: dial, version/attach (via Start), walk, stat, clunk.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"wandrews.dev/p9fsclient"
	"wandrews.dev/p9fsclient/dial"
)

func main() {
	var (
		addr  = flag.String("addr", "", "host[:port] of the 9P server")
		uname = flag.String("uname", "nobody", "attach user name")
		aname = flag.String("aname", "", "attach tree name")
		path  = flag.String("path", "", "slash-separated path to stat, relative to aname")
	)
	flag.Parse()

	if *addr == "" {
		log.Fatal("p9pstat: -addr is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := dial.TCP(ctx, *addr, 5*time.Second)
	if err != nil {
		log.Fatalf("p9pstat: %v", err)
	}

	sess, err := p9fsclient.Start(conn, *addr, *uname, *aname, uint32(os.Getuid()),
		p9fsclient.WithLogger(log.New(os.Stderr, "p9pstat: ", 0)))
	if err != nil {
		log.Fatalf("p9pstat: start: %v", err)
	}
	defer sess.Close()

	fid := sess.RootFid
	for _, elem := range splitPath(*path) {
		newfid, _, err := sess.Walk(fid, elem)
		if err != nil {
			log.Fatalf("p9pstat: walk %q: %v", elem, err)
		}
		if fid != sess.RootFid {
			sess.Clunk(fid)
		}
		fid = newfid
	}

	st, err := sess.Stat(fid)
	if err != nil {
		log.Fatalf("p9pstat: stat: %v", err)
	}
	if fid != sess.RootFid {
		defer sess.Clunk(fid)
	}

	log.Printf("%s", st)
}

func splitPath(p string) []string {
	var elems []string
	for _, e := range strings.Split(p, "/") {
		if e != "" {
			elems = append(elems, e)
		}
	}
	return elems
}

package wire

import (
	"bytes"
	"testing"

	"wandrews.dev/p9fsclient/internal/msgbuf"
)

func testBuffer() *msgbuf.Buffer {
	return msgbuf.New(0, 1)
}

func newErrorFrame(t *testing.T, tag uint16, ename string, errno int32) []byte {
	t.Helper()
	buf := msgbuf.New(Rerror, tag)
	if err := buf.AppendString(ename); err != nil {
		t.Fatal(err)
	}
	buf.AppendUint32(uint32(errno))
	frame, err := buf.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return frame
}

func TestVersionRoundTrip(t *testing.T) {
	buf, err := EncodeTversion(8192, "9P2000.u")
	if err != nil {
		t.Fatal(err)
	}
	frame, err := buf.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if len(frame) != int(frame[0])|int(frame[1])<<8|int(frame[2])<<16|int(frame[3])<<24 {
		t.Fatalf("size prefix does not match frame length")
	}

	// An Rversion has the same msize+version body shape as Tversion;
	// reuse the encoder and overwrite the type byte as a server would.
	rbuf, err := EncodeTversion(8192, "9P2000.u")
	if err != nil {
		t.Fatal(err)
	}
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rversion

	rv, err := DecodeRversion(rframe)
	if err != nil {
		t.Fatal(err)
	}
	if rv.Msize != 8192 || rv.Version != "9P2000.u" {
		t.Fatalf("got %+v", rv)
	}
}

func TestDecodeRversionWrongType(t *testing.T) {
	buf, _ := EncodeTversion(8192, "9P2000.u")
	frame, _ := buf.Bytes()
	if _, err := DecodeRversion(frame); err != ErrUnexpectedType {
		t.Fatalf("expected ErrUnexpectedType, got %v", err)
	}
}

func TestDecodeRerrorOverridesExpectedType(t *testing.T) {
	frame := newErrorFrame(t, 5, "no such file", 2)
	_, err := DecodeRattach(frame)
	se, ok := err.(*ServerError)
	if !ok {
		t.Fatalf("expected *ServerError, got %T: %v", err, err)
	}
	if se.Ename != "no such file" || se.Errno != 2 {
		t.Fatalf("got %+v", se)
	}
}

func TestDecodeRerrorEIO(t *testing.T) {
	frame := newErrorFrame(t, 5, "whatever", -1)
	_, err := DecodeRopen(frame)
	se, ok := err.(*ServerError)
	if !ok {
		t.Fatalf("expected *ServerError, got %T", err)
	}
	if se.Ename != "I/O error" {
		t.Fatalf("got ename %q, want I/O error substitution", se.Ename)
	}
}

func TestQidRoundTrip(t *testing.T) {
	buf := testBuffer()
	q := Qid{Type: QTDIR, Version: 7, Path: 99}
	EncodeQid(buf, q)
	frame, _ := buf.Bytes()
	body := frame[HeaderLen:]
	got, err := DecodeQid(body)
	if err != nil {
		t.Fatal(err)
	}
	if got != q {
		t.Fatalf("got %+v want %+v", got, q)
	}
}

func TestStatRoundTrip(t *testing.T) {
	want := Stat{
		Type:   0,
		Dev:    0,
		Qid:    Qid{Type: QTFILE, Version: 1, Path: 42},
		Mode:   0644,
		Atime:  100,
		Mtime:  200,
		Length: 12,
		Name:   "hello.txt",
		Uid:    "root",
		Gid:    "wheel",
		Muid:   "root",
	}
	buf := testBuffer()
	if err := EncodeStat(buf, want); err != nil {
		t.Fatal(err)
	}
	frame, _ := buf.Bytes()
	got, n, err := DecodeStat(frame[HeaderLen:])
	if err != nil {
		t.Fatal(err)
	}
	if n != len(frame)-HeaderLen {
		t.Fatalf("consumed %d bytes, want %d", n, len(frame)-HeaderLen)
	}
	if got.Name != want.Name || got.Uid != want.Uid || got.Length != want.Length || got.Qid != want.Qid {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestStatExtensionRoundTrip(t *testing.T) {
	want := Stat{
		Qid:       Qid{Type: QTFILE, Version: 1, Path: 1},
		Name:      "link",
		Uid:       "u",
		Gid:       "g",
		Muid:      "u",
		Extension: "/etc/passwd",
		Nuid:      1000,
		Ngid:      1000,
		Nmuid:     1000,
	}
	buf := testBuffer()
	if err := EncodeStat(buf, want); err != nil {
		t.Fatal(err)
	}
	frame, _ := buf.Bytes()
	got, _, err := DecodeStat(frame[HeaderLen:])
	if err != nil {
		t.Fatal(err)
	}
	if got.Extension != want.Extension || got.Nuid != want.Nuid {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestDecodeRread(t *testing.T) {
	data := []byte("hello world\n")

	rbuf := testBuffer()
	rbuf.AppendUint32(uint32(len(data)))
	rbuf.Append(data)
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rread

	got, err := DecodeRread(rframe)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("got %q want %q", got, data)
	}
}

func TestDecodeRreadRejectsOverflowingCount(t *testing.T) {
	rbuf := testBuffer()
	rbuf.AppendUint32(0xFFFFFFFC) // would wrap 4+count to 0 under uint32 arithmetic
	rbuf.Append([]byte("abcd"))
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rread

	if _, err := DecodeRread(rframe); err != ErrShortBuffer {
		t.Fatalf("got %v, want ErrShortBuffer", err)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	buf, err := EncodeTcreate(1, 0, "newfile", 0644, 0)
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := buf.Bytes()
	if frame[4] != Tcreate {
		t.Fatalf("expected Tcreate type byte")
	}

	rbuf := testBuffer()
	EncodeQid(rbuf, Qid{Type: QTFILE, Version: 0, Path: 9})
	rbuf.AppendUint32(8192)
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rcreate

	got, err := DecodeRcreate(rframe)
	if err != nil {
		t.Fatal(err)
	}
	if got.Qid.Path != 9 || got.IOUnit != 8192 {
		t.Fatalf("got %+v", got)
	}
}

func TestRemoveRoundTrip(t *testing.T) {
	buf := EncodeTremove(1, 7)
	frame, _ := buf.Bytes()
	if frame[4] != Tremove {
		t.Fatalf("expected Tremove type byte")
	}

	rbuf := testBuffer()
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rremove

	if err := DecodeRremove(rframe); err != nil {
		t.Fatal(err)
	}
}

func TestWstatRoundTrip(t *testing.T) {
	st := Stat{
		Qid:  Qid{Type: QTFILE, Version: 0, Path: 3},
		Name: "renamed.txt",
		Uid:  "u",
		Gid:  "g",
		Muid: "u",
	}
	buf, err := EncodeTwstat(1, 4, st)
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := buf.Bytes()
	if frame[4] != Twstat {
		t.Fatalf("expected Twstat type byte")
	}

	// body is fid[4] + outer-size[2] + stat record (which itself starts
	// with its own inner-size[2]); DecodeStat on the inner record must
	// consume exactly the bytes the outer size promised.
	body := frame[HeaderLen:]
	outer := int(body[4]) | int(body[5])<<8
	statRecord := body[6:]
	if outer != len(statRecord) {
		t.Fatalf("outer size %d does not match stat record length %d", outer, len(statRecord))
	}
	got, n, err := DecodeStat(statRecord)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(statRecord) || got.Name != st.Name {
		t.Fatalf("got %+v (consumed %d), want name %q", got, n, st.Name)
	}

	rbuf := testBuffer()
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rwstat

	if err := DecodeRwstat(rframe); err != nil {
		t.Fatal(err)
	}
}

func TestFlushRoundTrip(t *testing.T) {
	buf := EncodeTflush(2, 1)
	frame, _ := buf.Bytes()
	if frame[4] != Tflush {
		t.Fatalf("expected Tflush type byte")
	}
	if got := int(frame[HeaderLen]) | int(frame[HeaderLen+1])<<8; got != 1 {
		t.Fatalf("oldtag = %d, want 1", got)
	}

	rbuf := testBuffer()
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rflush

	if err := DecodeRflush(rframe); err != nil {
		t.Fatal(err)
	}
}

func TestWalkRoundTrip(t *testing.T) {
	buf, err := EncodeTwalk(1, 0, 1, "etc")
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := buf.Bytes()
	if frame[4] != Twalk {
		t.Fatalf("expected Twalk type byte")
	}

	rbuf := testBuffer()
	rbuf.AppendUint16(1)
	EncodeQid(rbuf, Qid{Type: QTDIR, Version: 0, Path: 2})
	rframe, _ := rbuf.Bytes()
	rframe[4] = Rwalk

	qids, err := DecodeRwalk(rframe)
	if err != nil {
		t.Fatal(err)
	}
	if len(qids) != 1 || qids[0].Path != 2 {
		t.Fatalf("got %+v", qids)
	}
}

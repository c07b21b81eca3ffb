package parser

import "github.com/oarkflow/sqlfront/lexer"

// TokenSource produces tokens one at a time. Once the input is exhausted
// it must keep returning an EOF token. *lexer.Lexer implements it.
type TokenSource interface {
	Next() (lexer.Token, error)
}

// cursor gives the parser one token of lookahead over a TokenSource. At
// most one token is ever buffered, so there is no push-back operation to
// misuse: a token is either peeked (and stays) or taken.
type cursor struct {
	src      TokenSource
	buf      lexer.Token
	buffered bool
}

// peek returns the next token without consuming it.
func (c *cursor) peek() (lexer.Token, error) {
	if !c.buffered {
		tok, err := c.src.Next()
		if err != nil {
			return lexer.Token{}, err
		}
		c.buf = tok
		c.buffered = true
	}
	return c.buf, nil
}

// next consumes and returns the next token. EOF is never consumed, so
// repeated calls at the end keep returning it.
func (c *cursor) next() (lexer.Token, error) {
	tok, err := c.peek()
	if err != nil {
		return tok, err
	}
	if tok.Type != lexer.EOF {
		c.buffered = false
	}
	return tok, nil
}

// more reports whether a non-EOF token remains.
func (c *cursor) more() (bool, error) {
	tok, err := c.peek()
	if err != nil {
		return false, err
	}
	return tok.Type != lexer.EOF, nil
}

// stop discards any buffered token and pins the cursor at an EOF located
// at pos. The source is not read again.
func (c *cursor) stop(pos int32) {
	c.buf = lexer.Token{Type: lexer.EOF, Pos: pos}
	c.buffered = true
}

// sliceSource replays a fixed token slice, then EOF.
type sliceSource struct {
	toks []lexer.Token
	i    int
}

// NewSliceSource returns a TokenSource over toks. A trailing EOF token is
// optional.
func NewSliceSource(toks []lexer.Token) TokenSource {
	return &sliceSource{toks: toks}
}

func (s *sliceSource) Next() (lexer.Token, error) {
	if s.i < len(s.toks) {
		tok := s.toks[s.i]
		if tok.Type != lexer.EOF {
			s.i++
		}
		return tok, nil
	}
	var end lexer.Token
	if n := len(s.toks); n > 0 {
		last := s.toks[n-1]
		end.Pos, end.Line, end.Col = last.End(), last.Line, last.Col+uint32(len(last.Raw))
	}
	end.Type = lexer.EOF
	return end, nil
}

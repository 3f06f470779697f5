package shell

import "fmt"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokText TokenKind = iota

	TokRedirectIn        // <
	TokRedirectInHere    // <<
	TokRedirectOut       // >
	TokRedirectOutAppend // >>
	TokRedirectOutErr    // &>
	TokRedirectErr       // 2>
	TokRedirectErrAppend // 2>>

	TokPipe // |

	TokAnd // &&
	TokOr  // ||

	TokSeqEnd // ;
	TokSeqBg  // &

	TokParenLeft  // (
	TokParenRight // )
)

var tokenKindNames = map[TokenKind]string{
	TokText:              "TEXT",
	TokRedirectIn:        "RED_IN",
	TokRedirectInHere:    "RED_IN_HERE",
	TokRedirectOut:       "RED_OUT",
	TokRedirectOutAppend: "RED_OUT_APP",
	TokRedirectOutErr:    "RED_OUT_ERR",
	TokRedirectErr:       "RED_ERR",
	TokRedirectErrAppend: "RED_ERR_APP",
	TokPipe:              "PIPE",
	TokAnd:               "SEP_AND",
	TokOr:                "SEP_OR",
	TokSeqEnd:            "SEP_END",
	TokSeqBg:             "SEP_BG",
	TokParenLeft:         "PAR_LEFT",
	TokParenRight:        "PAR_RIGHT",
}

// operators maps every operator spelling to its kind.
var operators = map[string]TokenKind{
	"<":   TokRedirectIn,
	"<<":  TokRedirectInHere,
	">":   TokRedirectOut,
	">>":  TokRedirectOutAppend,
	"&>":  TokRedirectOutErr,
	"2>":  TokRedirectErr,
	"2>>": TokRedirectErrAppend,
	"|":   TokPipe,
	"&&":  TokAnd,
	"||":  TokOr,
	";":   TokSeqEnd,
	"&":   TokSeqBg,
	"(":   TokParenLeft,
	")":   TokParenRight,
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsRedirect reports whether the kind is one of the redirection operators.
func (k TokenKind) IsRedirect() bool {
	return k >= TokRedirectIn && k <= TokRedirectErrAppend
}

// Token is a single lexical unit of a command line.
type Token struct {
	Kind TokenKind
	Text string
}

func (t Token) String() string {
	if t.Kind == TokText {
		return fmt.Sprintf("%q", t.Text)
	}
	return "‘" + t.Text + "’"
}

package runner

import (
	"github.com/shibukawa/parsec/casefile"
	pc "github.com/shibukawa/parsec/combinator"
)

// demoParsers are the classic combinator exercises, test1 to test13.
func demoParsers() []Entry {
	a, b, c := pc.Char('a'), pc.Char('b'), pc.Char('c')
	test1 := pc.Sequence(pc.AnyChar(), pc.AnyChar())

	return []Entry{
		prefix("test1", "two characters", test1),
		prefix("test2", "three characters", pc.Seq(test1, pc.Sequence(pc.AnyChar()))),
		prefix("test3", "letter and two digits", pc.Sequence(pc.Letter(), pc.Digit(), pc.Digit())),
		prefix("test4", "letter or digit", pc.Or(pc.Letter(), pc.Digit())),
		prefix("test5", "letter and three digits", pc.Sequence(pc.Letter(), pc.Digit(), pc.Digit(), pc.Digit())),
		prefix("test6", "letter and three digits, counted", pc.Seq(pc.Letter(), pc.Count(3, pc.Digit()))),
		prefix("test7", "letters", pc.Many(pc.Letter())),
		prefix("test8", "letters and digits", pc.Many(pc.Or(pc.Letter(), pc.Digit()))),
		prefix("test9", "ab or ac without backtracking", pc.Or(pc.Sequence(a, b), pc.Sequence(a, c))),
		prefix("test10", "ab or ac with backtracking", pc.Or(pc.Try(pc.Sequence(a, b)), pc.Sequence(a, c))),
		prefix("test11", "string ab or ac without backtracking", pc.Or(pc.String("ab"), pc.String("ac"))),
		prefix("test12", "string ab or ac with backtracking", pc.Or(pc.Try(pc.String("ab")), pc.String("ac"))),
		prefix("test13", "a followed by b or c", pc.Sequence(a, pc.Or(b, c))),
	}
}

// DemoCases returns the demonstration inputs with their expected output.
func DemoCases() []casefile.Case {
	cases := []casefile.Case{
		want("anychar", "abc", "a"),
		want("test1", "abc", "ab"),
		want("test2", "abc", "abc"),
		fail("test2", "12", "[line 1, col 3] unexpected end of input"),
		want("test2", "123", "123"),
		want("char:a", "abc", "a"),
		fail("char:a", "123", "[line 1, col 1] not char 'a': '1'"),
		fail("digit", "abc", "[line 1, col 1] not digit: 'a'"),
		want("digit", "123", "1"),
		want("letter", "abc", "a"),
		fail("letter", "123", "[line 1, col 1] not letter: '1'"),
		fail("test3", "abc", "[line 1, col 2] not digit: 'b'"),
		fail("test3", "123", "[line 1, col 1] not letter: '1'"),
		want("test3", "a23", "a23"),
		want("test3", "a234", "a23"),
		want("test4", "a", "a"),
		want("test4", "1", "1"),
		fail("test4", "!", "[line 1, col 1] not letter: '!' or not digit: '!'"),
		want("test5", "a123", "a123"),
		fail("test5", "ab123", "[line 1, col 2] not digit: 'b'"),
		want("test6", "a123", "a123"),
		fail("test6", "ab123", "[line 1, col 2] not digit: 'b'"),
		want("test7", "abc123", "abc"),
		want("test7", "123abc", ""),
		want("test8", "abc123", "abc123"),
		want("test8", "123abc", "123abc"),
		want("test9", "ab", "ab"),
		fail("test9", "ac", "[line 1, col 2] not char 'b': 'c'"),
		want("test10", "ab", "ab"),
		want("test10", "ac", "ac"),
		want("test11", "ab", "ab"),
		fail("test11", "ac", `[line 1, col 2] not string "ab": 'c'`),
		want("test12", "ab", "ab"),
		want("test12", "ac", "ac"),
		want("test13", "ab", "ab"),
		want("test13", "ac", "ac"),

		want("number", "123", "123"),
		want("expr", "1 + 2", "3"),
		want("expr", "123", "123"),
		want("expr", "1 + 2 + 3", "6"),
		want("expr", "1 - 2 - 3", "-4"),
		want("expr", "1 - 2 + 3", "2"),
		want("expr", "2 * 3 + 4", "10"),
		want("expr", "2 + 3 * 4", "14"),
		want("expr", "100 / 10 / 2", "5"),
		want("expr", "( 2 + 3 ) * 4", "20"),
	}

	for i := range cases {
		cases[i].Source = "demo"
	}

	return cases
}

func want(parser, input, value string) casefile.Case {
	return casefile.Case{Name: parser + " " + input, Parser: parser, Input: input, Want: &value}
}

func fail(parser, input, message string) casefile.Case {
	return casefile.Case{Name: parser + " " + input, Parser: parser, Input: input, Error: message}
}

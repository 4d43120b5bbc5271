package codegen

import (
	"github.com/strager/jmm/wat"
)

// Literals printb hands to prints. They are interned before any user string,
// so "true" lives at offset 0 and "false" at offset 4.
const (
	trueText  = "true"
	falseText = "false"
)

func builtin(c *Context, name string) string {
	return c.Table.Builtins.StorageName(name)
}

// runtimeImports binds halt, getchar and printc to the host.
func runtimeImports(c *Context) []wat.Import {
	return []wat.Import{
		{Module: "host", Field: "exit", Name: builtin(c, "halt")},
		{Module: "host", Field: "getchar", Name: builtin(c, "getchar"), Result: true},
		{Module: "host", Field: "putchar", Name: builtin(c, "printc"), Params: 1},
	}
}

// runtimeFuncs builds prints, printi and printb.
func runtimeFuncs(c *Context) []wat.Func {
	return []wat.Func{prints(c), printi(c), printb(c)}
}

func get(name string) wat.Op { return wat.Op("local.get " + name) }
func set(name string) wat.Op { return wat.Op("local.set " + name) }
func i32(v int) wat.Op       { return wat.Opf("i32.const %d", v) }

func ops(instrs ...wat.Instr) []wat.Instr { return instrs }

// prints(start, length) writes length bytes starting at start.
func prints(c *Context) wat.Func {
	return wat.Func{
		Name:   builtin(c, "prints"),
		Params: []string{"$start", "$length"},
		Locals: []string{"$end"},
		Body: ops(
			get("$start"), get("$length"), wat.Op("i32.add"), set("$end"),
			&wat.Block{Label: "$b0", Body: ops(
				&wat.Loop{Label: "$l0", Body: ops(
					get("$start"), get("$end"), wat.Op("i32.ge_s"), wat.Op("br_if $b0"),
					get("$start"), wat.Op("i32.load8_u"), wat.Op("call "+builtin(c, "printc")),
					get("$start"), i32(1), wat.Op("i32.add"), set("$start"),
					wat.Op("br $l0"),
				)},
			)},
		),
	}
}

// printi(x) writes x in decimal. div grows to the largest power of ten not
// above |x| and then walks down one digit at a time. For negative x each
// quotient is negated rather than x itself.
func printi(c *Context) wat.Func {
	printc := wat.Op("call " + builtin(c, "printc"))
	x, div := "$x", "$div"

	// while div <= limit: div = div * 10
	grow := func(num int, limit []wat.Instr) wat.Instr {
		cond := concat(ops(get(div)), limit, ops(wat.Op("i32.le_s")))
		return whileLoop(num, cond,
			ops(get(div), i32(10), wat.Op("i32.mul"), set(div)),
			cond)
	}
	digits := func(num int, digit []wat.Instr) wat.Instr {
		cond := ops(get(div), i32(1), wat.Op("i32.gt_s"))
		return whileLoop(num, cond,
			concat(digit, ops(i32(48), wat.Op("i32.add"), printc,
				get(div), i32(10), wat.Op("i32.div_s"), set(div))),
			cond)
	}

	negative := ops(
		i32(45), printc,
		// while div <= -(x / 10)
		grow(0, ops(i32(0), get(x), i32(10), wat.Op("i32.div_s"), wat.Op("i32.sub"))),
		// printc(-(x / div) + 48)
		i32(0), get(x), get(div), wat.Op("i32.div_s"), wat.Op("i32.sub"), i32(48), wat.Op("i32.add"), printc,
		// printc(-(x % div) / (div / 10) + 48)
		digits(1, ops(i32(0), get(x), get(div), wat.Op("i32.rem_s"), wat.Op("i32.sub"),
			get(div), i32(10), wat.Op("i32.div_s"), wat.Op("i32.div_s"))),
	)
	positive := ops(
		grow(2, ops(get(x), i32(10), wat.Op("i32.div_s"))),
		get(x), get(div), wat.Op("i32.div_s"), i32(48), wat.Op("i32.add"), printc,
		digits(3, ops(get(x), get(div), wat.Op("i32.rem_s"),
			get(div), i32(10), wat.Op("i32.div_s"), wat.Op("i32.div_s"))),
	)

	return wat.Func{
		Name:   builtin(c, "printi"),
		Params: []string{x},
		Locals: []string{div},
		Body: ops(
			i32(1), set(div),
			get(x), i32(0), wat.Op("i32.eq"),
			&wat.If{
				Then: ops(i32(48), printc),
				Else: ops(
					get(x), i32(0), wat.Op("i32.lt_s"),
					&wat.If{Then: negative, Else: positive},
				),
			},
		),
	}
}

// printb(b) writes "true" or "false".
func printb(c *Context) wat.Func {
	trueAt, trueLen := c.Strings.Intern(trueText)
	falseAt, falseLen := c.Strings.Intern(falseText)
	callPrints := wat.Op("call " + builtin(c, "prints"))
	return wat.Func{
		Name:   builtin(c, "printb"),
		Params: []string{"$b"},
		Body: ops(
			get("$b"),
			&wat.If{
				Then: ops(i32(trueAt), i32(trueLen), callPrints),
				Else: ops(i32(falseAt), i32(falseLen), callPrints),
			},
		),
	}
}

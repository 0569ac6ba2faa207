package solver

import (
	"fmt"
	"strconv"
	"strings"

	"gridsolve/internal/energy"
)

// Canonical variable naming convention for symbolic solver labels:
//
//	block.variable(tok,tok,...)
//
// e.g. flow.value(wind,bel,3), invest.capacity(bel,storage),
// storage.content(storage,7). Tokens are decoded against the system
// registry: a token matching a registered label is an entity reference,
// a token parsing as a non-negative integer is a time step.

// DecodeName splits a symbolic solver name into block, variable and raw
// index tuple. The returned index preserves token order.
func DecodeName(name string, sys *energy.System) (block, variable string, index []IndexElem, err error) {
	head := name
	var args string
	if open := strings.IndexByte(name, '('); open >= 0 {
		if !strings.HasSuffix(name, ")") {
			return "", "", nil, fmt.Errorf("decode %q: unterminated index", name)
		}
		head = name[:open]
		args = name[open+1 : len(name)-1]
	}

	if dot := strings.LastIndexByte(head, '.'); dot >= 0 {
		block = head[:dot]
		variable = head[dot+1:]
	} else {
		block = head
		variable = head
	}
	if variable == "" {
		return "", "", nil, fmt.Errorf("decode %q: empty variable name", name)
	}

	if args == "" {
		return block, variable, nil, nil
	}
	for _, tok := range strings.Split(args, ",") {
		tok = strings.TrimSpace(tok)
		if e, ok := sys.Entity(tok); ok {
			index = append(index, EntityElem(e))
			continue
		}
		if t, convErr := strconv.Atoi(tok); convErr == nil && t >= 0 {
			index = append(index, StepElem(t))
			continue
		}
		return "", "", nil, fmt.Errorf("decode %q: token %q is neither a registered entity nor a time step", name, tok)
	}
	return block, variable, index, nil
}

// decodeBalanceRow recognizes bus balance constraint rows named
// balance(<bus>,<t>). Non-balance rows return ok=false.
func decodeBalanceRow(name string, sys *energy.System) (key DualKey, ok bool, err error) {
	if !strings.HasPrefix(name, "balance(") || !strings.HasSuffix(name, ")") {
		return DualKey{}, false, nil
	}
	args := strings.Split(name[len("balance("):len(name)-1], ",")
	if len(args) != 2 {
		return DualKey{}, false, fmt.Errorf("balance row %q: want (bus,step)", name)
	}
	bus := strings.TrimSpace(args[0])
	if _, exists := sys.Entity(bus); !exists {
		return DualKey{}, false, fmt.Errorf("balance row %q: unknown bus %q", name, bus)
	}
	step, convErr := strconv.Atoi(strings.TrimSpace(args[1]))
	if convErr != nil || step < 0 {
		return DualKey{}, false, fmt.Errorf("balance row %q: bad step %q", name, args[1])
	}
	return DualKey{Bus: bus, Step: step}, true, nil
}

package pyemit

import (
	"fmt"
	"strings"
)

// renderActionPoints builds the action_points.py companion module: one
// class per action point the body walk touched, exposing only the
// .position / .poses.<name> / .joints.<name> accessors the body actually
// uses, each returning a deep copy of the value looked up from the
// resource bundle so callers cannot mutate project state through it.
func (e *emitter) renderActionPoints() string {
	if len(e.apOrder) == 0 {
		return "import copy\n\n\nclass ActionPoints:\n    def __init__(self, res):\n        self._res = res\n"
	}

	var b classBuilder
	b.writeln("import copy")
	b.writeln("")
	b.writeln("")
	b.writeln("class ActionPoints:")
	b.writeln("    def __init__(self, res):")
	b.writeln("        self._res = res")

	for _, apID := range e.apOrder {
		c := e.apCompanions[apID]
		b.writeln("")
		b.writeln(fmt.Sprintf("        self.%s = ActionPoints.%s(res)", c.name, className(c.name)))
	}

	for _, apID := range e.apOrder {
		c := e.apCompanions[apID]
		b.writeln("")
		b.writeCompanionClass(c)
	}
	return b.String()
}

func className(apName string) string {
	if apName == "" {
		return "AP"
	}
	return "AP" + strings.ToUpper(apName[:1]) + apName[1:]
}

type classBuilder struct {
	s string
}

func (c *classBuilder) writeln(line string) {
	c.s += line + "\n"
}

func (c *classBuilder) String() string { return c.s }

func (c *classBuilder) writeCompanionClass(ap *apCompanion) {
	cls := className(ap.name)
	c.writeln(fmt.Sprintf("    class %s:", cls))
	c.writeln("        def __init__(self, res):")
	c.writeln("            self._res = res")
	c.writeln("")

	if ap.position {
		c.writeln("        @property")
		c.writeln("        def position(self):")
		c.writeln(fmt.Sprintf("            return copy.deepcopy(self._res.action_points['%s'].position)", ap.id))
		c.writeln("")
	}
	if len(ap.poses) > 0 {
		c.writeln("        @property")
		c.writeln("        def poses(self):")
		c.writeln(fmt.Sprintf("            return ActionPoints.%s._Poses(self._res)", cls))
		c.writeln("")
		c.writeln("        class _Poses:")
		c.writeln("            def __init__(self, res):")
		c.writeln("                self._res = res")
		c.writeln("")
		for _, ori := range ap.poses {
			c.writeln("            @property")
			c.writeln(fmt.Sprintf("            def %s(self):", ori.name))
			c.writeln(fmt.Sprintf("                return copy.deepcopy(self._res.action_points['%s'].orientations['%s'])", ap.id, ori.id))
			c.writeln("")
		}
	}
	if len(ap.joints) > 0 {
		c.writeln("        @property")
		c.writeln("        def joints(self):")
		c.writeln(fmt.Sprintf("            return ActionPoints.%s._Joints(self._res)", cls))
		c.writeln("")
		c.writeln("        class _Joints:")
		c.writeln("            def __init__(self, res):")
		c.writeln("                self._res = res")
		c.writeln("")
		for _, j := range ap.joints {
			c.writeln("            @property")
			c.writeln(fmt.Sprintf("            def %s(self):", j.name))
			c.writeln(fmt.Sprintf("                return copy.deepcopy(self._res.action_points['%s'].joints['%s'])", ap.id, j.id))
			c.writeln("")
		}
	}
}

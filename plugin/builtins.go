package plugin

// RegisterBuiltins registers every plugin type this module ships with into
// r. Mirrors the teacher's one-time-registration idiom (plugin.go's
// init()-based MCP plugin registration) but takes an explicit *Registry
// rather than mutating a package-level one, since a library has no business
// installing global state a caller didn't ask for.
func RegisterBuiltins(r *Registry) error {
	builtins := []Plugin{
		newInteger(),
		newDouble(),
		newBoolean(),
		newString(),
		newPose(),
		newPoseArray(),
		newPosition(),
		newJoints(),
		newRelativePose(),
		newImage(),
	}
	for _, p := range builtins {
		if err := r.Register(p); err != nil {
			return err
		}
	}
	return nil
}

// RegisterIntegerEnum registers an "integer_enum" plugin restricted to
// allowed. Unlike the fixed builtins, an enum's allowed-value set is
// declared per action-object-type metadata, so it is registered
// individually rather than unconditionally by RegisterBuiltins.
func RegisterIntegerEnum(r *Registry, allowed []int64) error {
	return r.Register(newIntegerEnum(allowed))
}

// RegisterStringEnum registers a "string_enum" plugin restricted to allowed,
// for the same reason as RegisterIntegerEnum.
func RegisterStringEnum(r *Registry, allowed []string) error {
	return r.Register(newStringEnum(allowed))
}

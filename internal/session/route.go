package session

import (
	"github.com/specialistvlad/ardublockgo/internal/workspace"
	"github.com/zclconf/go-cty/cty"
)

// route applies the consequences of one workspace edit to the directory and
// the validation engine.
func (s *Session) route(e workspace.Event) {
	if s.loading {
		return
	}
	b := e.Block

	switch e.Type {
	case workspace.BlockCreated:
		if decl, ok := s.reg.DeclarationOf(b); ok {
			s.dir.Register(decl.Kind, b.FieldString(decl.Field), b)
			s.instancesChanged(decl.Kind)
		}
		s.eng.Track(b)
		s.eng.Revalidate(b)
		s.updateFields(b)

	case workspace.BlockDeleted:
		if decl, ok := s.reg.DeclarationOf(b); ok {
			s.dir.Unregister(decl.Kind, b.FieldString(decl.Field), b)
			s.instancesChanged(decl.Kind)
		}
		s.eng.Forget(b)

	case workspace.FieldChanged:
		if decl, ok := s.reg.DeclarationOf(b); ok && decl.Field == e.Field {
			s.dir.Unregister(decl.Kind, asString(e.OldValue), b)
			s.dir.Register(decl.Kind, asString(e.NewValue), b)
			s.instancesChanged(decl.Kind)
		}
		if field, ok := s.reg.ReferenceField(b); ok && field == e.Field {
			s.eng.Revalidate(b)
		}

	case workspace.SocketConnected, workspace.SocketDisconnected:
		if b.Workspace() == nil {
			return
		}
		for _, d := range s.ws.Descendants(b) {
			s.eng.Revalidate(d)
		}
	}
}

// instancesChanged fans out to every tracked block of kind: their warnings and
// their instance dropdowns depend on the directory.
func (s *Session) instancesChanged(kind string) {
	n := s.eng.RevalidateKind(kind)
	for _, b := range s.eng.Tracked(kind) {
		s.updateFields(b)
	}
	s.logger.Debug("Instances changed.", "kind", kind, "warnings_changed", n)
}

func asString(v cty.Value) string {
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

package mefxml

import (
	"github.com/scram-tools/scram-core/mef"
)

var topScope = mef.Scope{Public: true}

// loader carries the in-progress model and the bookkeeping needed to
// register every definition as a stub before any formula or expression is
// attached, so forward references between gates, parameters, and events
// resolve regardless of document order.
type loader struct {
	model    *mef.Model
	lines    *lineIndex
	filename string

	pendingGates  []rawElement
	pendingBasics []rawElement
	pendingHouses []rawElement
	pendingParams []rawElement
	pendingCcf    []rawElement

	faultTreeOrder []string
	topGates       map[string][]string

	// paramDeps accumulates the Parameter references seen while parsing one
	// parameter's own expression, consumed by fillParams right after each
	// top-level parseExpression call.
	paramDeps []*mef.Parameter
}

// FromXML parses an XML fault-tree document into a validated *mef.Model.
// filename annotates every location-tracked error and element.
func FromXML(data []byte, filename string) (*mef.Model, error) {
	l := &loader{
		model:    mef.NewModel(filename),
		lines:    newLineIndex(data),
		filename: filename,
		topGates: make(map[string][]string),
	}

	top, err := scanRoot(data)
	if err != nil {
		return nil, mef.NewIOError("parse %s: %v", filename, err)
	}
	if err := l.scan(top, ""); err != nil {
		return nil, err
	}
	if err := l.fill(); err != nil {
		return nil, err
	}

	for _, name := range l.faultTreeOrder {
		var all []*mef.Gate
		for _, gateName := range l.topGates[name] {
			g, ok := l.model.Gates.Lookup(topScope, gateName)
			if !ok {
				return nil, mef.NewUndefinedElement(gateName)
			}
			all = append(all, g)
		}
		// A gate is a top gate unless another gate of the tree reaches it
		// without being reached back (gates of a cycle stay, for Validate).
		reach := make(map[*mef.Gate]map[*mef.Gate]bool)
		for _, g := range all {
			reach[g] = make(map[*mef.Gate]bool)
			for _, r := range mef.NewFaultTree("", []*mef.Gate{g}).ReachableGates() {
				reach[g][r] = true
			}
		}
		var top []*mef.Gate
	nextGate:
		for _, g := range all {
			for _, h := range all {
				if h != g && reach[h][g] && !reach[g][h] {
					continue nextGate
				}
			}
			top = append(top, g)
		}
		l.model.AddFaultTree(mef.NewFaultTree(name, top))
	}

	if err := l.model.Validate(); err != nil {
		return nil, err
	}
	return l.model, nil
}

func (l *loader) locationOf(e rawElement) mef.Location {
	if e.offset == 0 {
		return mef.Location{}
	}
	return mef.Location{File: l.filename, Line: l.lines.lineAt(e.offset)}
}

// scan performs the stub-registration pass: every gate, parameter, basic
// event, and house event gets an identity-only placeholder in the model so
// that fill's second pass can resolve a reference to any of them
// regardless of which one the document defines first. currentFaultTree is
// the name of the enclosing <define-fault-tree>, or "" outside one; a
// <define-gate> seen while it is non-empty is recorded under that tree, and
// FromXML keeps as top gates the recorded gates no other gate of the tree
// sits above.
func (l *loader) scan(elems []rawElement, currentFaultTree string) error {
	for _, e := range elems {
		switch e.XMLName.Local {
		case "define-fault-tree":
			if e.Name == "" {
				return mef.NewValidationError("define-fault-tree missing a name attribute")
			}
			l.faultTreeOrder = append(l.faultTreeOrder, e.Name)
			children, err := childElements(e.InnerXML)
			if err != nil {
				return mef.NewIOError("parse fault tree %q: %v", e.Name, err)
			}
			if err := l.scan(children, e.Name); err != nil {
				return err
			}
		case "model-data":
			children, err := childElements(e.InnerXML)
			if err != nil {
				return mef.NewIOError("parse model-data: %v", err)
			}
			if err := l.scan(children, ""); err != nil {
				return err
			}
		case "define-gate":
			if err := l.stubGate(e); err != nil {
				return err
			}
			if currentFaultTree != "" {
				l.topGates[currentFaultTree] = append(l.topGates[currentFaultTree], e.Name)
			}
		case "define-basic-event":
			if err := l.stubBasic(e); err != nil {
				return err
			}
		case "define-house-event":
			if err := l.stubHouse(e); err != nil {
				return err
			}
		case "define-parameter":
			if err := l.stubParam(e); err != nil {
				return err
			}
		case "define-CCF-group":
			l.pendingCcf = append(l.pendingCcf, e)
		default:
			// Unrecognized container or leaf tag: skip rather than fail, so a
			// document written for a newer dialect still loads.
		}
	}
	return nil
}

func (l *loader) stubGate(e rawElement) error {
	if e.Name == "" {
		return mef.NewValidationError("define-gate missing a name attribute")
	}
	g := mef.NewGate(e.Name, nil, true)
	g.Location = l.locationOf(e)
	if err := l.model.AddGate(g); err != nil {
		return err.(*mef.Error).WithLocation(g.Location)
	}
	l.pendingGates = append(l.pendingGates, e)
	return nil
}

func (l *loader) stubBasic(e rawElement) error {
	if e.Name == "" {
		return mef.NewValidationError("define-basic-event missing a name attribute")
	}
	b := mef.NewBasicEvent(e.Name, nil, true)
	b.Location = l.locationOf(e)
	if err := l.model.AddBasicEvent(b); err != nil {
		return err.(*mef.Error).WithLocation(b.Location)
	}
	l.pendingBasics = append(l.pendingBasics, e)
	return nil
}

func (l *loader) stubHouse(e rawElement) error {
	if e.Name == "" {
		return mef.NewValidationError("define-house-event missing a name attribute")
	}
	h := mef.NewHouseEvent(e.Name, nil, true)
	h.Location = l.locationOf(e)
	if err := l.model.AddHouseEvent(h); err != nil {
		return err.(*mef.Error).WithLocation(h.Location)
	}
	l.pendingHouses = append(l.pendingHouses, e)
	return nil
}

func (l *loader) stubParam(e rawElement) error {
	if e.Name == "" {
		return mef.NewValidationError("define-parameter missing a name attribute")
	}
	p := mef.NewParameter(e.Name, nil, true, parseUnit(e.Unit))
	p.Location = l.locationOf(e)
	if err := l.model.AddParameter(p); err != nil {
		return err.(*mef.Error).WithLocation(p.Location)
	}
	l.pendingParams = append(l.pendingParams, e)
	return nil
}

func parseUnit(s string) mef.Unit {
	switch s {
	case "bool":
		return mef.UnitBool
	case "int":
		return mef.UnitInt
	case "float":
		return mef.UnitFloat
	case "hours":
		return mef.UnitHours
	case "hours-1", "per-hour":
		return mef.UnitInverseHours
	case "years":
		return mef.UnitYears
	case "years-1", "per-year":
		return mef.UnitInverseYears
	case "fit":
		return mef.UnitFIT
	case "demands":
		return mef.UnitDemands
	default:
		return mef.UnitUnitless
	}
}

// fill performs the second pass: every stub gets its real content, walking
// the expression/formula grammar now that every name it might reference is
// already registered.
func (l *loader) fill() error {
	if err := l.fillParams(); err != nil {
		return err
	}
	if err := l.fillBasics(); err != nil {
		return err
	}
	if err := l.fillHouses(); err != nil {
		return err
	}
	if err := l.fillGates(); err != nil {
		return err
	}
	if err := l.fillCcfGroups(); err != nil {
		return err
	}
	return l.model.ApplyCcfGroups()
}

func (l *loader) fillParams() error {
	for _, e := range l.pendingParams {
		p, ok := l.model.Params.Lookup(topScope, e.Name)
		if !ok {
			return mef.NewLogicError("parameter %q stub missing", e.Name)
		}
		children, err := childElements(e.InnerXML)
		if err != nil {
			return mef.NewIOError("parse parameter %q: %v", e.Name, err)
		}
		if len(children) == 0 {
			return mef.NewValidationError("parameter %q has no expression", e.Name).WithLocation(l.locationOf(e))
		}
		l.paramDeps = nil
		expr, err := l.parseExpression(children[0])
		if err != nil {
			return annotate(err, l.locationOf(e))
		}
		if err := p.SetExpression(expr, l.paramDeps); err != nil {
			return annotate(err, l.locationOf(e))
		}
	}
	return nil
}

func (l *loader) fillBasics() error {
	for _, e := range l.pendingBasics {
		b, ok := l.model.Basics.Lookup(topScope, e.Name)
		if !ok {
			return mef.NewLogicError("basic event %q stub missing", e.Name)
		}
		children, err := childElements(e.InnerXML)
		if err != nil {
			return mef.NewIOError("parse basic event %q: %v", e.Name, err)
		}
		if len(children) == 0 {
			return mef.NewValidationError("basic event %q has no expression", e.Name).WithLocation(l.locationOf(e))
		}
		expr, err := l.parseExpression(children[0])
		if err != nil {
			return annotate(err, l.locationOf(e))
		}
		if err := b.SetExpression(expr); err != nil {
			return annotate(err, l.locationOf(e))
		}
	}
	return nil
}

func (l *loader) fillHouses() error {
	for _, e := range l.pendingHouses {
		h, ok := l.model.Houses.Lookup(topScope, e.Name)
		if !ok {
			return mef.NewLogicError("house event %q stub missing", e.Name)
		}
		val := e.Value
		if val == "" {
			children, err := childElements(e.InnerXML)
			if err != nil {
				return mef.NewIOError("parse house event %q: %v", e.Name, err)
			}
			if len(children) > 0 {
				val = children[0].Value
			}
		}
		h.SetState(val == "true" || val == "1")
	}
	return nil
}

func (l *loader) fillGates() error {
	for _, e := range l.pendingGates {
		g, ok := l.model.Gates.Lookup(topScope, e.Name)
		if !ok {
			return mef.NewLogicError("gate %q stub missing", e.Name)
		}
		children, err := childElements(e.InnerXML)
		if err != nil {
			return mef.NewIOError("parse gate %q: %v", e.Name, err)
		}
		var formulaRoot *rawElement
		for i := range children {
			if children[i].XMLName.Local == "formula" {
				formulaRoot = &children[i]
				break
			}
		}
		if formulaRoot == nil {
			return mef.NewValidationError("gate %q has no formula", e.Name).WithLocation(l.locationOf(e))
		}
		opNodes, err := childElements(formulaRoot.InnerXML)
		if err != nil {
			return mef.NewIOError("parse gate %q formula: %v", e.Name, err)
		}
		if len(opNodes) == 0 {
			return mef.NewValidationError("gate %q formula is empty", e.Name).WithLocation(l.locationOf(e))
		}
		f, err := l.parseFormulaNode(opNodes[0])
		if err != nil {
			return annotate(err, l.locationOf(e))
		}
		g.SetFormula(f)
	}
	return nil
}

func (l *loader) fillCcfGroups() error {
	for _, e := range l.pendingCcf {
		if e.Name == "" {
			return mef.NewValidationError("define-CCF-group missing a name attribute")
		}
		model, err := ccfModelFor(e.Model)
		if err != nil {
			return annotate(err, l.locationOf(e))
		}
		children, err := childElements(e.InnerXML)
		if err != nil {
			return mef.NewIOError("parse CCF group %q: %v", e.Name, err)
		}

		var members []*mef.BasicEvent
		var q mef.Expression
		var betas, alphas, phis []mef.Expression

		for _, c := range children {
			switch c.XMLName.Local {
			case "members":
				memberChildren, err := childElements(c.InnerXML)
				if err != nil {
					return mef.NewIOError("parse CCF group %q members: %v", e.Name, err)
				}
				for _, mc := range memberChildren {
					if mc.XMLName.Local != "basic-event" {
						continue
					}
					b, ok := l.model.Basics.Lookup(topScope, mc.Name)
					if !ok {
						return mef.NewUndefinedElement(mc.Name).WithLocation(l.locationOf(e))
					}
					members = append(members, b)
				}
			case "distribution":
				distChildren, err := childElements(c.InnerXML)
				if err != nil {
					return mef.NewIOError("parse CCF group %q distribution: %v", e.Name, err)
				}
				if len(distChildren) == 0 {
					return mef.NewValidationError("CCF group %q distribution is empty", e.Name).WithLocation(l.locationOf(e))
				}
				q, err = l.parseExpression(distChildren[0])
				if err != nil {
					return annotate(err, l.locationOf(e))
				}
			case "factor":
				factorChildren, err := childElements(c.InnerXML)
				if err != nil {
					return mef.NewIOError("parse CCF group %q factor: %v", e.Name, err)
				}
				if len(factorChildren) == 0 {
					return mef.NewValidationError("CCF group %q factor is empty", e.Name).WithLocation(l.locationOf(e))
				}
				f, err := l.parseExpression(factorChildren[0])
				if err != nil {
					return annotate(err, l.locationOf(e))
				}
				switch model {
				case mef.CcfBetaFactor, mef.CcfMGL:
					betas = append(betas, f)
				case mef.CcfAlphaFactor:
					alphas = append(alphas, f)
				case mef.CcfPhiFactor:
					phis = append(phis, f)
				}
			}
		}
		if q == nil {
			return mef.NewValidationError("CCF group %q has no distribution", e.Name).WithLocation(l.locationOf(e))
		}

		group := mef.NewCcfGroup(e.Name, nil, model, members, q)
		group.Beta, group.Alpha, group.Phi = betas, alphas, phis
		if err := l.model.AddCcfGroup(group); err != nil {
			return annotate(err, l.locationOf(e))
		}
	}
	return nil
}

func ccfModelFor(s string) (mef.CcfModel, error) {
	switch s {
	case "beta-factor":
		return mef.CcfBetaFactor, nil
	case "MGL":
		return mef.CcfMGL, nil
	case "alpha-factor":
		return mef.CcfAlphaFactor, nil
	case "phi-factor":
		return mef.CcfPhiFactor, nil
	default:
		return 0, mef.NewValidationError("unknown CCF model %q", s)
	}
}

// annotate attaches loc to err if err is a *mef.Error that doesn't already
// carry a location, leaving any other error type untouched.
func annotate(err error, loc mef.Location) error {
	if me, ok := err.(*mef.Error); ok && me.Location.IsZero() {
		return me.WithLocation(loc)
	}
	return err
}

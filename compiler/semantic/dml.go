package semantic

import (
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/ast"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/qerr"
	"github.com/hibernate/hibernate-semantic-query-sub003/compiler/sqm"
	"github.com/hibernate/hibernate-semantic-query-sub003/domain"
)

// dmlRoot opens the single-root scope of a DML statement and declares its
// target entity.  Paths in a DML statement never introduce joins.
func (a *analyzer) dmlRoot(decl *ast.RootDecl) (*sqm.Root, error) {
	scope := NewScope(nil)
	scope.dml = true
	a.pushScope(scope)
	space := scope.from.AddSpace()
	if err := a.semRoot(decl, space); err != nil {
		return nil, err
	}
	return space.Root(), nil
}

func (a *analyzer) dmlWhere(where ast.Expr) (*sqm.WhereClause, error) {
	if where == nil {
		return nil, nil
	}
	var out *sqm.WhereClause
	err := a.withPolicy(&policy{kind: basicPolicy}, func() error {
		pred, err := a.semPred(where)
		if err != nil {
			return err
		}
		out = &sqm.WhereClause{Predicate: pred}
		return nil
	})
	return out, err
}

func (a *analyzer) semUpdate(stmt *ast.UpdateStatement) (*sqm.UpdateStatement, error) {
	root, err := a.dmlRoot(stmt.Target)
	if err != nil {
		return nil, err
	}
	set := &sqm.SetClause{}
	err = a.withPolicy(&policy{kind: basicPolicy}, func() error {
		for _, assign := range stmt.Set {
			target, err := a.stateField(root, assign.LHS, false)
			if err != nil {
				return err
			}
			value, err := a.semExpr(assign.Value)
			if err != nil {
				return err
			}
			imply(value, target)
			set.Assignments = append(set.Assignments, &sqm.Assignment{Target: target, Value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	where, err := a.dmlWhere(stmt.Where)
	if err != nil {
		return nil, err
	}
	if err := a.popScope(); err != nil {
		return nil, err
	}
	return &sqm.UpdateStatement{
		Versioned:  stmt.Versioned,
		Root:       root,
		Set:        set,
		Where:      where,
		Parameters: a.params,
	}, nil
}

func (a *analyzer) semDelete(stmt *ast.DeleteStatement) (*sqm.DeleteStatement, error) {
	root, err := a.dmlRoot(stmt.Target)
	if err != nil {
		return nil, err
	}
	where, err := a.dmlWhere(stmt.Where)
	if err != nil {
		return nil, err
	}
	if err := a.popScope(); err != nil {
		return nil, err
	}
	return &sqm.DeleteStatement{Root: root, Where: where, Parameters: a.params}, nil
}

// semInsert analyzes insert into E (fields) select ....  The query spec is
// analyzed in its own scope and cannot see the insert target.
func (a *analyzer) semInsert(stmt *ast.InsertStatement) (*sqm.InsertSelectStatement, error) {
	root, err := a.dmlRoot(&ast.RootDecl{Kind: "RootDecl", Entity: stmt.Entity, Loc: stmt.Entity.Loc})
	if err != nil {
		return nil, err
	}
	if _, ok := root.BoundType().(*domain.EntityType); !ok {
		return nil, qerr.SemanticAt(stmt.Entity.Pos(), stmt.Entity.End(), "insert target %q must be a mapped entity", stmt.Entity.String())
	}
	var fields []*sqm.AttributeRef
	err = a.withPolicy(&policy{kind: basicPolicy}, func() error {
		for _, path := range stmt.Fields {
			ref, err := a.stateField(root, path, true)
			if err != nil {
				return err
			}
			fields = append(fields, ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := a.popScope(); err != nil {
		return nil, err
	}
	a.pushScope(NewScope(nil))
	q, err := a.semQuerySpec(stmt.Query)
	if err != nil {
		return nil, err
	}
	if err := a.popScope(); err != nil {
		return nil, err
	}
	if len(fields) != len(q.Select.Selections) {
		return nil, qerr.SemanticAt(stmt.Pos(), stmt.End(), "insert names %d state fields but selects %d values", len(fields), len(q.Select.Selections))
	}
	for k, sel := range q.Select.Selections {
		imply(sel.Expr, fields[k])
	}
	return &sqm.InsertSelectStatement{
		Target:      root,
		StateFields: fields,
		Query:       q,
		Parameters:  a.params,
	}, nil
}

// stateField resolves an assignment target or insert field to a singular
// attribute of the DML root.  Insert fields are always relative to the
// root; assignment targets may also be qualified by its alias.
func (a *analyzer) stateField(root *sqm.Root, path *ast.Path, relative bool) (*sqm.AttributeRef, error) {
	if path.Base != nil {
		return nil, located(qerr.Semantic("state field %q cannot be treated", path.Parts.String()), path)
	}
	p, err := a.policy()
	if err != nil {
		return nil, err
	}
	parts := path.Parts
	if !relative && len(parts) > 1 && fold(parts.Head()) == fold(root.Alias()) {
		parts = parts[1:]
	}
	expr, err := a.resolveFrom(p, root, sqm.NavigableType(root), parts, path.Parts.String(), false)
	if err != nil {
		return nil, located(err, path)
	}
	ref, ok := expr.(*sqm.AttributeRef)
	if !ok || ref.IsPlural() {
		return nil, qerr.SemanticAt(path.Pos(), path.End(), "%q is not a state field of %s", path.Parts.String(), describe(root))
	}
	return ref, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/mitchellh/mapstructure"

	"github.com/memobit/labsql"
	"github.com/memobit/labsql/dialect"
)

var analysisFields = []string{"analysisName", "categoryId", "unitId", "optimalRangeMin", "optimalRangeMax", "reference"}

// analysisUnit is the part of an analysis body that names its unit.
type analysisUnit struct {
	UnitID   *int64  `mapstructure:"unitId"`
	UnitName *string `mapstructure:"unitName"`
}

func (s *Server) analysisEndpoints() []APIEndpoint {
	return []APIEndpoint{
		{Path: "/analysis", Get: s.analysisIndex},
		{Path: "/analysis/getAnalysisList", Get: s.analysisList},
		{Path: "/analysis/add", Post: s.analysisAdd},
		{Path: "/analysis/update/{id:[0-9]+}", Post: s.analysisUpdate},
		{Path: "/analysis/updateOptimalRange/{id:[0-9]+}", Post: s.analysisUpdateOptimalRange},
		{Path: "/analysis/delete/{id:[0-9]+}", Get: s.analysisDelete, Post: s.analysisDelete},
	}
}

func (s *Server) analysisIndex(r *http.Request) (any, error) {
	rows, err := s.db.Builder().
		Columns(
			"ma.id as analysisId", "analysisName", "categoryId", "unitId", "optimalRangeMin", "optimalRangeMax",
			"mc.name as categoryName", "mu.name as unitName", "reference",
		).
		LeftJoin("medical_categories AS mc", "ma.categoryId", "=", "mc.id").
		LeftJoin("medical_units AS mu", "ma.unitId", "=", "mu.id").
		Asc("analysisName").
		Get(r.Context(), "medical_analysis AS ma")
	if err != nil {
		return nil, err
	}

	return dataResponse(packRows(rows, truthy)), nil
}

func (s *Server) analysisList(r *http.Request) (any, error) {
	rows, err := s.db.Builder().
		Columns("ma.id as analysisId", "analysisName").
		Asc("analysisName").
		Get(r.Context(), "medical_analysis AS ma")
	if err != nil {
		return nil, err
	}

	return dataResponse(rows), nil
}

func (s *Server) analysisAdd(r *http.Request) (any, error) {
	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.db.Transaction(r.Context(), func(tx *labsql.Tx) error {
		data, err := s.analysisData(r.Context(), tx.Builder(), body)
		if err != nil {
			return err
		}

		id, err = tx.Builder().Insert(r.Context(), "medical_analysis", data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return createdResponse("Analysis saved successfully", id), nil
}

func (s *Server) analysisUpdate(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(r.Context(), func(tx *labsql.Tx) error {
		data, err := s.analysisData(r.Context(), tx.Builder(), body)
		if err != nil {
			return err
		}

		_, err = tx.Builder().Where(dialect.Eq("id", id)).Update(r.Context(), "medical_analysis", data)
		return err
	})
	if err != nil {
		return nil, err
	}

	return okMessage("Analysis updated successfully"), nil
}

func (s *Server) analysisUpdateOptimalRange(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	body, err := decodeObject(r)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Builder().
		Where(dialect.Eq("id", id)).
		Update(r.Context(), "medical_analysis", pick(body, "optimalRangeMin", "optimalRangeMax"))
	if err != nil {
		return nil, err
	}

	return okMessage("Optimal range updated successfully"), nil
}

func (s *Server) analysisDelete(r *http.Request) (any, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}

	_, err = s.db.Builder().Where(dialect.Eq("id", id)).Delete(r.Context(), "medical_analysis")
	if err != nil {
		return nil, err
	}

	return okMessage("Analysis deleted successfully"), nil
}

// analysisData whitelists the body and fills unitId from unitName, creating
// the unit when it does not exist yet.
func (s *Server) analysisData(ctx context.Context, qb labsql.Builder, body map[string]any) (map[string]any, error) {
	var unit analysisUnit
	err := mapstructure.WeakDecode(body, &unit)
	if err != nil {
		return nil, badRequest("Invalid unit: %v", err)
	}

	data := pick(body, analysisFields...)

	if unit.UnitID != nil && *unit.UnitID != 0 {
		data["unitId"] = *unit.UnitID
		return data, nil
	}

	if unit.UnitName == nil || *unit.UnitName == "" {
		return data, nil
	}

	row, err := qb.Columns("id").Where(dialect.Eq("name", *unit.UnitName)).GetRow(ctx, "medical_units")
	if err != nil {
		return nil, err
	}

	if row != nil {
		var found struct {
			ID int64 `db:"id"`
		}

		err = row.Decode(&found)
		if err != nil {
			return nil, err
		}

		data["unitId"] = found.ID
		return data, nil
	}

	unitID, err := qb.Insert(ctx, "medical_units", map[string]any{"name": *unit.UnitName})
	if err != nil {
		return nil, err
	}

	s.log.WithField("unit", *unit.UnitName).Info("Created unit")
	data["unitId"] = unitID

	return data, nil
}

// packRows drops the cells keep rejects, preserving column order.
func packRows(rows []labsql.Row, keep func(any) bool) []labsql.Row {
	out := make([]labsql.Row, len(rows))
	for i, row := range rows {
		var (
			cols []string
			vals []any
		)

		for j, col := range row.Columns() {
			v := row.Values()[j]
			if keep(v) {
				cols = append(cols, col)
				vals = append(vals, v)
			}
		}

		out[i] = labsql.NewRow(cols, vals)
	}

	return out
}

// Package matrix 负责把原始行为事件聚合成用户-商品评分矩阵，
// 并提供评分矩阵的低秩分解（协同过滤的离线训练部分）。
package matrix

import "github.com/rushteam/shopkit/core"

// Matrix 是稠密的用户×商品评分矩阵。
//
// 行 = 至少有一次行为的用户，按事件流中首次出现的顺序；
// 列 = 至少被交互过一次的商品，按事件流中首次出现的顺序。
// 缺失的 (user, product) 对评分为 0。
//
// 首次出现序是全链路平局规则的基准：列序即协同召回的平局序。
type Matrix struct {
	Users    []string
	Products []string
	Scores   [][]float64 // len(Users) × len(Products)

	userIndex    map[string]int
	productIndex map[string]int
}

// Build 聚合全量行为事件为评分矩阵。
// 同一 (user, product) 的多次行为按行为权重累加；未知行为类型权重 1.0。
// 零事件时返回 nil（"无矩阵"状态），下游协同训练整体跳过。
func Build(interactions []*core.Interaction) *Matrix {
	if len(interactions) == 0 {
		return nil
	}

	m := &Matrix{
		userIndex:    make(map[string]int),
		productIndex: make(map[string]int),
	}

	// 稀疏累加：key = (userIdx, productIdx)
	type cell struct{ u, p int }
	sparse := make(map[cell]float64, len(interactions))

	for _, in := range interactions {
		if in == nil || in.UserID == "" || in.ProductID == "" {
			continue
		}
		u, ok := m.userIndex[in.UserID]
		if !ok {
			u = len(m.Users)
			m.userIndex[in.UserID] = u
			m.Users = append(m.Users, in.UserID)
		}
		p, ok := m.productIndex[in.ProductID]
		if !ok {
			p = len(m.Products)
			m.productIndex[in.ProductID] = p
			m.Products = append(m.Products, in.ProductID)
		}
		sparse[cell{u, p}] += in.Kind.Weight()
	}

	if len(m.Users) == 0 || len(m.Products) == 0 {
		return nil
	}

	// 透视为稠密矩阵
	m.Scores = make([][]float64, len(m.Users))
	for i := range m.Scores {
		m.Scores[i] = make([]float64, len(m.Products))
	}
	for c, score := range sparse {
		m.Scores[c.u][c.p] = score
	}
	return m
}

// UserIndex 返回用户的行号。
func (m *Matrix) UserIndex(userID string) (int, bool) {
	i, ok := m.userIndex[userID]
	return i, ok
}

// ProductIndex 返回商品的列号。
func (m *Matrix) ProductIndex(productID string) (int, bool) {
	j, ok := m.productIndex[productID]
	return j, ok
}

// Row 返回用户的评分行；用户不在矩阵中时返回 (nil, false)。
func (m *Matrix) Row(userID string) ([]float64, bool) {
	i, ok := m.userIndex[userID]
	if !ok {
		return nil, false
	}
	return m.Scores[i], true
}

// PositiveSet 返回用户累计评分 > 0 的商品集合（"已正向交互"判定）。
func (m *Matrix) PositiveSet(userID string) map[string]struct{} {
	row, ok := m.Row(userID)
	if !ok {
		return nil
	}
	out := make(map[string]struct{})
	for j, score := range row {
		if score > 0 {
			out[m.Products[j]] = struct{}{}
		}
	}
	return out
}

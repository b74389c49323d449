package pipeline

import "github.com/hitoshi/bookfinder/internal/model"

// ViewPatch はビュー状態の部分更新を表す。
// nilフィールドは変更しない。
type ViewPatch struct {
	SortBy            *model.SortOrder
	FilterYear        *string
	ShowFavoritesOnly *bool
	Page              *int
}

// ApplyPatch はビュー状態の更新規則に従って新しいViewStateを返す。
//
// 規則: ページ以外のフィールドが1つでも実際に値を変えた場合、
// ページは1にリセットされ、同じパッチに含まれるPageは無視される。
// Pageのみを変更するパッチはリセットを起こさない。
// 入力のviewは変更されない。
func ApplyPatch(view model.ViewState, patch ViewPatch) (model.ViewState, error) {
	if patch.SortBy != nil && !patch.SortBy.IsValid() {
		return view, model.NewInvalidSortError(string(*patch.SortBy))
	}
	if patch.Page != nil && *patch.Page < 1 {
		return view, model.NewInvalidPageError(*patch.Page)
	}

	next := view
	changed := false

	if patch.SortBy != nil && *patch.SortBy != next.SortBy {
		next.SortBy = *patch.SortBy
		changed = true
	}
	if patch.FilterYear != nil && *patch.FilterYear != next.FilterYear {
		next.FilterYear = *patch.FilterYear
		changed = true
	}
	if patch.ShowFavoritesOnly != nil && *patch.ShowFavoritesOnly != next.ShowFavoritesOnly {
		next.ShowFavoritesOnly = *patch.ShowFavoritesOnly
		changed = true
	}

	if changed {
		next.Page = 1
		return next, nil
	}

	if patch.Page != nil {
		next.Page = *patch.Page
	}

	return next, nil
}

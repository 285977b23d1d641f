package diff

import (
	"reflect"
	"strings"

	odiff "github.com/r3labs/diff/v3"
	"github.com/shopspring/decimal"
)

func GetCustomDiffer() *odiff.Differ {
	ret, err := odiff.NewDiffer(odiff.CustomValueDiffers(&DecimalComparer{}))
	if err != nil {
		panic(err)
	}
	return ret
}

// Changes lists the dotted paths that differ between a and b.
func Changes(a, b interface{}) ([]string, error) {
	cl, err := GetCustomDiffer().Diff(a, b)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(cl))
	for _, c := range cl {
		paths = append(paths, strings.Join(c.Path, "."))
	}
	return paths, nil
}

// DecimalComparer compares decimal.Decimal by value, so 1.50 equals 1.5 and
// the unexported big.Int inside is never walked.
type DecimalComparer struct{}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
)

// Match check is field match this custom type
func (c DecimalComparer) Match(a, b reflect.Value) bool {
	aok := a.Kind() == decimalType.Kind() && a.Type() == decimalType
	bok := b.Kind() == decimalType.Kind() && b.Type() == decimalType
	return (aok && bok) || (a.Kind() == reflect.Invalid && bok) || (b.Kind() == reflect.Invalid && aok)
}

// Diff check is diff or not
func (c DecimalComparer) Diff(_ odiff.DiffType, _ odiff.DiffFunc, cl *odiff.Changelog, path []string, a reflect.Value, b reflect.Value, _ interface{}) error {
	// 取得實際數值 (處理可能為指標的情況)
	valA := reflect.Indirect(a)
	valB := reflect.Indirect(b)

	// 其中一邊是無效值 (nil) 則視為新增或刪除
	if !valA.IsValid() || !valB.IsValid() {
		switch {
		case valA.IsValid():
			cl.Add(odiff.DELETE, path, valA.Interface(), nil)
		case valB.IsValid():
			cl.Add(odiff.CREATE, path, nil, valB.Interface())
		}
		return nil
	}

	// 以數值比較，1.50 與 1.5 視為相同
	d1 := valA.Interface().(decimal.Decimal)
	d2 := valB.Interface().(decimal.Decimal)
	if !d1.Equal(d2) {
		cl.Add(odiff.UPDATE, path, d1, d2)
	}
	return nil
}

// InsertParentDiffer is a no-op: a decimal is a leaf.
func (c DecimalComparer) InsertParentDiffer(_ func(path []string, a reflect.Value, b reflect.Value, p interface{}) error) {
}

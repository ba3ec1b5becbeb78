package json

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// ─── Decode / Unmarshal ───

// Unmarshal 将 JSON 反序列化到 Go 值（兼容 encoding/json.Unmarshal 的常用子集）
//
// 使用池化 Parser 与默认 Options（宽松方言），字符串全部复制，
// 返回后 v 不再引用任何 Arena。
//
// 支持:
//   - *struct: 按 json tag 映射字段
//   - *map[string]T: 通用对象解析
//   - *[]T / *[N]T: 数组解析
//   - *string, *bool, *int*, *uint*, *float*: 基础类型
//   - *any: 转换为 nil / bool / int64 / float64 / string / []any / map[string]any
//   - json.Unmarshaler 接口
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(v)}
	}

	// json.Unmarshaler 接口
	if u, ok := v.(Unmarshaler); ok {
		return u.UnmarshalJSON(data)
	}

	p := AcquireParser()
	defer ReleaseParser(p)
	root, err := p.Parse(data)
	if err != nil {
		return err
	}
	return decodeValue(root, rv.Elem())
}

// Decode 把节点树解码到 v 指向的 Go 值（字符串复制，不引用 Arena）
func (n Node) Decode(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &InvalidUnmarshalError{Type: reflect.TypeOf(v)}
	}
	return decodeValue(n, rv.Elem())
}

// UnmarshalTypeError 节点类型无法存入目标 Go 类型
type UnmarshalTypeError struct {
	Value string       // 节点类型或数值文本
	Type  reflect.Type // 目标类型
	Field string       // 结构体字段路径（可能为空）
}

func (e *UnmarshalTypeError) Error() string {
	if e.Field != "" {
		return "json: cannot unmarshal " + e.Value + " into Go struct field " + e.Field + " of type " + e.Type.String()
	}
	return "json: cannot unmarshal " + e.Value + " into Go value of type " + e.Type.String()
}

func decodeValue(n Node, rv reflect.Value) error {
	if n.Kind() == KindNull {
		// null: 指针/接口/map/slice 置零，其余保持不变（与 encoding/json 一致）
		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
			rv.SetZero()
		}
		return nil
	}

	// 解引用指针（自动创建）
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	// Unmarshaler 接口
	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(Unmarshaler); ok {
			// 重新序列化 Node → JSON
			return u.UnmarshalJSON(AppendNode(nil, n))
		}
	}

	if rv.Kind() == reflect.Interface && rv.NumMethod() == 0 {
		rv.Set(reflect.ValueOf(n.Interface()))
		return nil
	}

	switch n.Kind() {
	case KindBool:
		if rv.Kind() != reflect.Bool {
			return typeError(n, rv)
		}
		rv.SetBool(n.Bool())
		return nil

	case KindInt, KindFloat:
		return decodeNumber(n, rv)

	case KindString:
		if rv.Kind() != reflect.String {
			return typeError(n, rv)
		}
		rv.SetString(strings.Clone(n.Str()))
		return nil

	case KindArray:
		return decodeArray(n, rv)

	case KindObject:
		return decodeObject(n, rv)
	}
	return nil
}

func typeError(n Node, rv reflect.Value) error {
	return &UnmarshalTypeError{Value: n.Kind().String(), Type: rv.Type()}
}

func numberText(n Node) string {
	if n.Kind() == KindInt {
		return strconv.FormatInt(n.Int(), 10)
	}
	return strconv.FormatFloat(n.Float(), 'g', -1, 64)
}

func decodeNumber(n Node, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n.Kind() != KindInt || rv.OverflowInt(n.Int()) {
			return &UnmarshalTypeError{Value: "number " + numberText(n), Type: rv.Type()}
		}
		rv.SetInt(n.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n.Kind() != KindInt || n.Int() < 0 || rv.OverflowUint(uint64(n.Int())) {
			return &UnmarshalTypeError{Value: "number " + numberText(n), Type: rv.Type()}
		}
		rv.SetUint(uint64(n.Int()))
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(n.Float())
	default:
		return typeError(n, rv)
	}
	return nil
}

func decodeArray(n Node, rv reflect.Value) error {
	var err error
	switch rv.Kind() {
	case reflect.Slice:
		slice := reflect.MakeSlice(rv.Type(), n.Len(), n.Len())
		n.ArrayEach(func(i int, v Node) bool {
			err = decodeValue(v, slice.Index(i))
			return err == nil
		})
		if err != nil {
			return err
		}
		rv.Set(slice)
	case reflect.Array:
		n.ArrayEach(func(i int, v Node) bool {
			if i >= rv.Len() {
				return false
			}
			err = decodeValue(v, rv.Index(i))
			return err == nil
		})
		// 多余的数组元素置零
		for i := n.Len(); err == nil && i < rv.Len(); i++ {
			rv.Index(i).SetZero()
		}
	default:
		return typeError(n, rv)
	}
	return err
}

func decodeObject(n Node, rv reflect.Value) error {
	var err error
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return typeError(n, rv)
		}
		if rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), n.Len()))
		}
		valType := rv.Type().Elem()
		keyType := rv.Type().Key()
		n.ObjectEach(func(k string, v Node) bool {
			val := reflect.New(valType).Elem()
			if err = decodeValue(v, val); err != nil {
				return false
			}
			// 重复键以最后一个为准
			rv.SetMapIndex(reflect.ValueOf(strings.Clone(k)).Convert(keyType), val)
			return true
		})
	case reflect.Struct:
		return decodeStruct(n, rv)
	default:
		return typeError(n, rv)
	}
	return err
}

func decodeStruct(n Node, rv reflect.Value) error {
	fields := getStructFields(rv.Type())
	var err error
	n.ObjectEach(func(k string, v Node) bool {
		fi := fields.lookup(k)
		if fi == nil {
			return true // 未知字段忽略
		}
		fv, ok := fieldByIndex(rv, fi.index)
		if !ok {
			return true
		}
		if err = decodeValue(v, fv); err != nil {
			if te, ok := err.(*UnmarshalTypeError); ok && te.Field == "" {
				te.Field = rv.Type().Name() + "." + fi.name
			}
			return false
		}
		return true
	})
	return err
}

// fieldByIndex 沿嵌入路径取字段，nil 嵌入指针自动创建
func fieldByIndex(rv reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				if !rv.CanSet() {
					return reflect.Value{}, false
				}
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv, true
}

// ─── Struct 字段缓存 ───

// structFieldInfo 缓存的结构体字段元数据
type structFieldInfo struct {
	name  string // JSON 键名
	index []int  // reflect 字段索引
}

// structFields 字段列表（按声明顺序）
type structFields []structFieldInfo

// lookup 先精确匹配，再不区分大小写匹配（与 encoding/json 一致）
func (fs structFields) lookup(key string) *structFieldInfo {
	for i := range fs {
		if fs[i].name == key {
			return &fs[i]
		}
	}
	for i := range fs {
		if strings.EqualFold(fs[i].name, key) {
			return &fs[i]
		}
	}
	return nil
}

// structCache 缓存（避免反复反射）
var structCache sync.Map // map[reflect.Type]structFields

func getStructFields(t reflect.Type) structFields {
	if cached, ok := structCache.Load(t); ok {
		return cached.(structFields)
	}
	fields := buildStructFields(t)
	structCache.Store(t, fields)
	return fields
}

func buildStructFields(t reflect.Type) structFields {
	var fields structFields
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		// 匿名嵌入结构体展开（无 tag 名时）
		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if f.Anonymous && ft.Kind() == reflect.Struct && (tag == "" || tag[0] == ',') {
			embedded := buildStructFields(ft)
			for j := range embedded {
				embedded[j].index = append([]int{i}, embedded[j].index...)
			}
			fields = append(fields, embedded...)
			continue
		}
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tag != "" {
			if before, _, _ := strings.Cut(tag, ","); before != "" {
				name = before
			}
		}
		fields = append(fields, structFieldInfo{name: name, index: f.Index})
	}
	return fields
}

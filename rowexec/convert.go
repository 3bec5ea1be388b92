// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rowexec

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"

	"github.com/rowforge/hydrate/plan"
)

// convertValue applies the Convert op a TerminalRead was compiled with.
// Numeric widening/narrowing goes through spf13/cast rather than a
// hand-rolled switch over every primitive-kind pair.
func convertValue(raw any, op plan.Convert, target reflect.Type) (any, error) {
	switch op {
	case plan.ConvertIdentity, plan.ConvertEnumToIntegral:
		rv := reflect.ValueOf(raw)
		if rv.Type().AssignableTo(target) {
			return raw, nil
		}
		if rv.Type().ConvertibleTo(target) {
			return rv.Convert(target).Interface(), nil
		}
		return nil, fmt.Errorf("value of type %s is not assignable to %s", rv.Type(), target)

	case plan.ConvertNumeric:
		return convertNumeric(raw, target)

	default:
		return nil, fmt.Errorf("unknown convert op %d", op)
	}
}

func convertNumeric(raw any, target reflect.Type) (any, error) {
	switch target.Kind() {
	case reflect.Bool:
		b, err := cast.ToBoolE(raw)
		if err != nil {
			return nil, err
		}
		return b, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(i).Convert(target).Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := cast.ToUint64E(raw)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(u).Convert(target).Interface(), nil

	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(target).Interface(), nil

	default:
		return nil, fmt.Errorf("numeric convert op does not support target kind %s", target.Kind())
	}
}

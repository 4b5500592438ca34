// Package users — window.go реализует ленивый сдвиг окна дневного лимита.
// Никаких фоновых сбросов по таймеру: окно перематывается в момент
// очередного действия, если с его начала прошли полные сутки.
package users

import "time"

// Day — длительность окна дневного лимита.
const Day = 24 * time.Hour

// RollWindow возвращает состояние окна лимита на момент now.
// Если now отстоит от начала окна на сутки и больше — окно начинается
// заново (счётчик 0, старт now). Иначе окно не меняется.
//
// Вызывается ровно один раз на каждую выдачу комплимента, ДО проверки
// лимита, чтобы сдвиг окна и проверка видели одно и то же значение.
func RollWindow(start time.Time, count int, now time.Time) (time.Time, int) {
	if !now.Before(start.Add(Day)) {
		return now, 0
	}
	return start, count
}

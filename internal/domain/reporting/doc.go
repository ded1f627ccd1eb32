// Package reporting содержит агрегационное ядро ClassTrack.
//
// Ядро работает над снимком трёх коллекций - студенты, оценки,
// посещаемость - и вычисляет сводные показатели панели управления
// и отчётов. Пакет определяет:
//
//   - Snapshot: неизменяемый снимок данных одного вычисления
//   - Average: средняя оценка студента с различением "нет данных"
//   - WeekRollup / StudentWeek: недельная сводка посещаемости
//   - RankedStudent: рейтинг успеваемости
//   - ActivityEntry: лента недавней активности
//
// # Архитектурные принципы
//
//  1. Никакого I/O - все функции детерминированы на своих входах
//  2. Снимок неизменяем: ядро никогда не мутирует коллекции
//  3. Дефектные данные (непригодные проценты, неразрешимые ссылки
//     на студентов) молча исключаются из агрегатов, а не роняют их
//
// # Две политики посещаемости
//
// AttendanceRate (диапазонная) при нуле записей возвращает 100:
// отсутствие данных трактуется оптимистично. RollupWeek (недельная)
// считает день без записи незасчитанным и оставляет его в
// знаменателе. Расхождение унаследовано от наблюдаемого поведения
// системы и сохранено как два отдельно именованных вычисления.
//
// # Пример использования
//
//	snap := reporting.NewSnapshot(students, grades, records)
//	stats := snap.Dashboard()
//	top := snap.Leaderboard(roster.Filter{}, timeutil.OpenWindow(), reporting.DashboardLeaderboardSize)
//	week := snap.RollupWeek(timeutil.Today())
package reporting

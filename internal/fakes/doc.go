// Package fakes содержит реализации зависимостей в памяти для тестов usecase,
// сервисов и обработчиков. Ошибки повторяют ошибки настоящих хранилищ и клиентов.
package fakes

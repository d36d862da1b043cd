package main

import (
	"fmt"

	"github.com/JamesAIzzard/winnow/estimation"
	"github.com/JamesAIzzard/winnow/parsing"
	"github.com/JamesAIzzard/winnow/question"
	"github.com/JamesAIzzard/winnow/stopping"
)

func buildBank(cfg *batteryConfig) (*question.Bank, error) {
	bank := question.NewBank()
	for _, qc := range cfg.Questions {
		if err := addQuestion(bank, qc); err != nil {
			return nil, fmt.Errorf("question %q: %w", qc.ID, err)
		}
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return bank, nil
}

func addQuestion(bank *question.Bank, qc questionConfig) error {
	switch qc.Type {
	case "numerical":
		q, err := question.New[float64](qc.ID, qc.Prompt, parsing.NewFloatParser(qc.Units), estimation.Numerical{}, numericalStopping(qc.Stopping))
		if err != nil {
			return err
		}
		return question.Add(bank, q)

	case "boolean":
		q, err := question.New[bool](qc.ID, qc.Prompt, parsing.NewBoolParser(), estimation.Boolean{}, booleanStopping(qc.Stopping))
		if err != nil {
			return err
		}
		return question.Add(bank, q)

	case "categorical":
		options := make(map[string]string, len(qc.Options))
		for _, o := range qc.Options {
			options[o] = o
		}
		q, err := question.New[string](qc.ID, qc.Prompt, parsing.NewLiteralParser(options, true), estimation.NewCategorical[string](len(qc.Options)), categoricalStopping[string](qc.Stopping))
		if err != nil {
			return err
		}
		return question.Add(bank, q)

	default:
		return fmt.Errorf("unknown question type %q", qc.Type)
	}
}

func numericalStopping(profile string) stopping.Node[float64] {
	if profile == "relaxed" {
		return stopping.RelaxedNumerical()
	}
	return stopping.StandardNumerical()
}

func booleanStopping(profile string) stopping.Node[bool] {
	if profile == "relaxed" {
		return stopping.RelaxedCategorical[bool]()
	}
	return stopping.StandardCategorical[bool]()
}

func categoricalStopping[T comparable](profile string) stopping.Node[T] {
	if profile == "relaxed" {
		return stopping.RelaxedCategorical[T]()
	}
	return stopping.StandardCategorical[T]()
}
